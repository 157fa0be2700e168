package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/todohub/todohub/internal/domain"
	"github.com/todohub/todohub/pkg/idgen"
)

// Field length limits for todo values.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
	MaxCategoryLength    = 100
	MaxTagLength         = 50
)

// SubtaskInput is the incoming representation of one subtask. A nil entry in
// a list is dropped during normalization. An entry without an id is treated
// as new; a supplied id preserves the identity of an existing subtask.
type SubtaskInput struct {
	ID        *string
	Title     string
	Completed *bool
}

// ValidationService normalizes and validates field values independent of
// persistence. Every method is pure given its input.
type ValidationService struct{}

// NewValidationService creates a new ValidationService.
func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// NormalizeTitle trims a todo title and validates its length.
func (s *ValidationService) NormalizeTitle(title string) (string, error) {
	return normalizeTitle(title, "Title must be between 1 and 255 characters")
}

// NormalizeSubtaskTitle trims a subtask title and validates its length.
func (s *ValidationService) NormalizeSubtaskTitle(title string) (string, error) {
	return normalizeTitle(title, "Subtask title must be between 1 and 255 characters")
}

func normalizeTitle(title, message string) (string, error) {
	normalized := strings.TrimSpace(title)
	if normalized == "" || utf8.RuneCountInString(normalized) > MaxTitleLength {
		return "", domain.NewValidationError([]string{message})
	}
	return normalized, nil
}

// ValidateDescription validates a description length. A nil description is
// valid.
func (s *ValidationService) ValidateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return domain.NewValidationError([]string{"Description cannot exceed 1000 characters"})
	}
	return nil
}

// NormalizeCategory trims a category; an empty result means absent and
// returns nil.
func (s *ValidationService) NormalizeCategory(category *string) (*string, error) {
	if category == nil {
		return nil, nil
	}
	normalized := strings.TrimSpace(*category)
	if normalized == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(normalized) > MaxCategoryLength {
		return nil, domain.NewValidationError([]string{"Category cannot exceed 100 characters"})
	}
	return &normalized, nil
}

// NormalizeTags trims each tag, drops empty entries and deduplicates while
// preserving first-seen order.
func (s *ValidationService) NormalizeTags(tags []string) ([]string, error) {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if utf8.RuneCountInString(trimmed) > MaxTagLength {
			return nil, domain.NewValidationError([]string{"Each tag must be between 1 and 50 characters"})
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}

	return normalized, nil
}

// NormalizeSubtasks drops nil entries, normalizes titles and preserves order.
// Entries without an id are assigned a new one.
func (s *ValidationService) NormalizeSubtasks(subtasks []*SubtaskInput) ([]domain.Subtask, error) {
	normalized := make([]domain.Subtask, 0, len(subtasks))

	for _, input := range subtasks {
		if input == nil {
			continue
		}

		title, err := s.NormalizeSubtaskTitle(input.Title)
		if err != nil {
			return nil, err
		}

		subtask := domain.Subtask{
			Title:     title,
			Completed: input.Completed != nil && *input.Completed,
		}
		if input.ID != nil && *input.ID != "" {
			subtask.ID = *input.ID
		} else {
			subtask.ID = idgen.MustGenerate(idgen.SubtaskPrefix)
		}
		normalized = append(normalized, subtask)
	}

	return normalized, nil
}

// ValidateSchedule fails when remindAt is after dueDate. The check only
// applies when both are present.
func (s *ValidationService) ValidateSchedule(dueDate, remindAt *time.Time) error {
	if dueDate != nil && remindAt != nil && remindAt.After(*dueDate) {
		return domain.NewValidationError([]string{"Reminder time cannot be after due date"})
	}
	return nil
}

// ResolvePriority defaults a nil priority to MEDIUM and validates a supplied
// one.
func (s *ValidationService) ResolvePriority(priority *domain.Priority) (domain.Priority, error) {
	if priority == nil {
		return domain.DefaultPriority, nil
	}
	if !priority.IsValid() {
		return "", domain.NewValidationError([]string{"Priority must be one of LOW, MEDIUM, HIGH"})
	}
	return *priority, nil
}

// NormalizeQueryFilter trims an optional string filter; an empty result means
// the filter is absent.
func (s *ValidationService) NormalizeQueryFilter(value string) *string {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return nil
	}
	return &normalized
}
