package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/queuecast/internal/domain"
)

func TestFormValidators(t *testing.T) {
	assert.NoError(t, validateDate("2025-08-29"))
	assert.Error(t, validateDate("2025-13-40"))
	assert.Error(t, validateDate(""))

	assert.NoError(t, validateClock("10:30"))
	assert.Error(t, validateClock("25:99"))

	assert.NoError(t, validateRequired("ID_CARD"))
	assert.Error(t, validateRequired(""))
}

func TestCompletionForm_DefaultsDateToToday(t *testing.T) {
	var req domain.CompletionRequest
	form := completionForm(&req, []domain.Task{{Code: "ID_CARD", Name: "National ID Card", SectionCode: "SEC-REG"}})

	assert.NotNil(t, form)
	assert.NoError(t, validateDate(req.Date))
}

func TestStaffingForm_KeepsGivenDate(t *testing.T) {
	req := domain.StaffingRequest{Date: "2025-09-05"}
	form := staffingForm(&req, []string{"SEC-IMM"})

	assert.NotNil(t, form)
	assert.Equal(t, "2025-09-05", req.Date)
}
