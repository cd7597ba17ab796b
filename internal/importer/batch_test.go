package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRows(t *testing.T) {
	rows, err := CompletionRows(mustTable(t, "row_id,date,time,task_id\n1,2025-08-29,10:30,PASSPORT_RENEWAL\n2,bad,25:99,X\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].RowID)
	assert.Equal(t, "PASSPORT_RENEWAL", rows[0].Request.TaskID)
	assert.Equal(t, "bad", rows[1].Request.Date, "validation happens per row at prediction")

	_, err = CompletionRows(mustTable(t, "row_id,date\n1,2025-08-29\n"))
	assert.Error(t, err)
}

func TestStaffingRows_UppercasesSection(t *testing.T) {
	rows, err := StaffingRows(mustTable(t, "row_id,date,section_id\n7,2025-09-01,sec-a\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SEC-A", rows[0].Request.SectionID)
	assert.Equal(t, "7", rows[0].RowID)
}
