package entities

type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

func (c ChangeType) String() string {
	return string(c)
}

func (c ChangeType) IsValid() bool {
	switch c {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
		return true
	default:
		return false
	}
}

// ChangeEvent уведомление об изменении строки заказа.
// New заполнен для insert/update, Old - для delete (и опционально для update).
type ChangeEvent struct {
	Type     ChangeType
	TenantID string
	New      *Order
	Old      *Order
}

// OrderID идентификатор заказа, которого касается событие.
func (e ChangeEvent) OrderID() string {
	switch {
	case e.New != nil:
		return e.New.ID
	case e.Old != nil:
		return e.Old.ID
	default:
		return ""
	}
}
