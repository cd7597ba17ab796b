package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/queuecast/internal/db"
	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/importer"
	"github.com/alexanderramin/queuecast/internal/predict"
	"github.com/alexanderramin/queuecast/internal/repository"
)

// ReferenceFiles points Load at files instead of the imported tables. An
// empty path means the database copy is used.
type ReferenceFiles struct {
	TasksPath    string
	StaffingPath string
}

type referenceService struct {
	tasks    repository.TaskRepo
	staffing repository.StaffingRepo
	uow      db.UnitOfWork
	files    ReferenceFiles
	observer UseCaseObserver
}

func NewReferenceService(
	tasks repository.TaskRepo,
	staffing repository.StaffingRepo,
	uow db.UnitOfWork,
	files ReferenceFiles,
	observers ...UseCaseObserver,
) ReferenceService {
	return &referenceService{
		tasks:    tasks,
		staffing: staffing,
		uow:      uow,
		files:    files,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *referenceService) Import(ctx context.Context, tasksPath, staffingPath string) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tasks_path": tasksPath, "staffing_path": staffingPath}
	defer func() { observe(ctx, s.observer, "import-reference", startedAt, fields, err) }()

	if tasksPath == "" && staffingPath == "" {
		return nil, errors.New("nothing to import: pass a tasks file, a staffing file or both")
	}

	var (
		tasks   []domain.Task
		records []domain.StaffingRecord
		errs    []error
	)
	if tasksPath != "" {
		var rowErrs []error
		tasks, rowErrs, err = readTasks(tasksPath)
		if err != nil {
			return nil, err
		}
		errs = append(errs, rowErrs...)
	}
	if staffingPath != "" {
		var rowErrs []error
		records, rowErrs, err = readStaffing(staffingPath)
		if err != nil {
			return nil, err
		}
		errs = append(errs, rowErrs...)
	}
	if len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if tasksPath != "" {
			txTasks := repository.NewSQLiteTaskRepo(tx)
			if err := txTasks.ReplaceAll(ctx, tasks); err != nil {
				return fmt.Errorf("replacing tasks: %w", err)
			}
			n, err := txTasks.Count(ctx)
			if err != nil {
				return err
			}
			result.TaskCount = n
		}
		if staffingPath != "" {
			txStaffing := repository.NewSQLiteStaffingRepo(tx)
			if err := txStaffing.ReplaceAll(ctx, records); err != nil {
				return fmt.Errorf("replacing staffing records: %w", err)
			}
			n, err := txStaffing.Count(ctx)
			if err != nil {
				return err
			}
			result.StaffingCount = n
			result.StaffingDuplicates = len(records) - n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["task_count"] = result.TaskCount
	fields["staffing_count"] = result.StaffingCount
	return result, nil
}

func (s *referenceService) Load(ctx context.Context) (predict.Reference, error) {
	var ref predict.Reference

	if s.files.TasksPath != "" {
		tasks, errs, err := readTasks(s.files.TasksPath)
		if err != nil {
			return ref, err
		}
		if len(errs) > 0 {
			return ref, formatValidationErrors(errs)
		}
		ref.Tasks = tasks
	} else {
		tasks, err := s.tasks.List(ctx)
		if err != nil {
			return ref, fmt.Errorf("listing tasks: %w", err)
		}
		ref.Tasks = tasks
	}

	if s.files.StaffingPath != "" {
		records, errs, err := readStaffing(s.files.StaffingPath)
		if err != nil {
			return ref, err
		}
		if len(errs) > 0 {
			return ref, formatValidationErrors(errs)
		}
		ref.Staffing = records
	} else {
		records, err := s.staffing.List(ctx)
		if err != nil {
			return ref, fmt.Errorf("listing staffing records: %w", err)
		}
		ref.Staffing = records
	}
	return ref, nil
}

func readTasks(path string) ([]domain.Task, []error, error) {
	t, err := importer.ReadTable(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading tasks file: %w", err)
	}
	tasks, errs := importer.ParseTasks(t)
	return tasks, errs, nil
}

func readStaffing(path string) ([]domain.StaffingRecord, []error, error) {
	t, err := importer.ReadTable(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading staffing file: %w", err)
	}
	records, errs := importer.ParseStaffing(t)
	return records, errs, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
