package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"dispatch-system/pkg/constants"
)

// registerRules registers the tags used in DTO struct tags.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("slot_time", isSlotTime); err != nil {
		return err
	}
	if err := v.RegisterValidation("order_status", isOrderStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("assignment_status", isAssignmentStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("reschedule_reason", isRescheduleReason); err != nil {
		return err
	}
	if err := v.RegisterValidation("order_priority", isOrderPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("note_type", isNoteType); err != nil {
		return err
	}
	if err := v.RegisterValidation("note_status", isNoteStatus); err != nil {
		return err
	}
	return nil
}

var slotTimeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

// isSlotTime validates 24-hour "HH:MM" schedule boundaries.
func isSlotTime(fl validator.FieldLevel) bool {
	return slotTimeRe.MatchString(fl.Field().String())
}

func isOrderStatus(fl validator.FieldLevel) bool {
	return constants.IsValidOrderStatus(fl.Field().String())
}

func isAssignmentStatus(fl validator.FieldLevel) bool {
	return constants.IsValidAssignmentStatus(fl.Field().String())
}

func isRescheduleReason(fl validator.FieldLevel) bool {
	return constants.IsValidRescheduleReason(fl.Field().String())
}

func isOrderPriority(fl validator.FieldLevel) bool {
	return constants.IsValidPriority(fl.Field().String())
}

func isNoteType(fl validator.FieldLevel) bool {
	for _, t := range constants.NoteTypes {
		if t == fl.Field().String() {
			return true
		}
	}
	return false
}

func isNoteStatus(fl validator.FieldLevel) bool {
	for _, s := range constants.NoteStatuses {
		if s == fl.Field().String() {
			return true
		}
	}
	return false
}
