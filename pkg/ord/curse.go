package ord

// CurseType classifies why an inscription was assigned a negative
// (cursed) number before the jubilee activation.
type CurseType string

const (
	CurseTypeDuplicateField        CurseType = "duplicate_field"
	CurseTypeIncompleteField       CurseType = "incomplete_field"
	CurseTypeNotAtOffsetZero       CurseType = "not_at_offset_zero"
	CurseTypeNotInFirstInput       CurseType = "not_in_first_input"
	CurseTypePointer               CurseType = "curse_pointer"
	CurseTypePushnum               CurseType = "curse_pushnum"
	CurseTypeReinscription         CurseType = "reinscription"
	CurseTypeStutter               CurseType = "stutter"
	CurseTypeUnrecognizedEvenField CurseType = "unrecognized_even_field"
)

func (c CurseType) String() string {
	return string(c)
}

func (c CurseType) IsValid() bool {
	switch c {
	case CurseTypeDuplicateField, CurseTypeIncompleteField, CurseTypeNotAtOffsetZero,
		CurseTypeNotInFirstInput, CurseTypePointer, CurseTypePushnum,
		CurseTypeReinscription, CurseTypeStutter, CurseTypeUnrecognizedEvenField:
		return true
	}
	return false
}
