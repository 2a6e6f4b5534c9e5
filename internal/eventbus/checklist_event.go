package eventbus

type ChecklistEventType string

const (
	ChecklistEventCreated ChecklistEventType = "ChecklistCreated"
	ChecklistEventDeleted ChecklistEventType = "ChecklistDeleted"
)

// ChecklistEvent announces a checklist lifecycle change to in-process
// subscribers.
type ChecklistEvent struct {
	Type        ChecklistEventType
	TeamID      string
	ChecklistID string
	TemplateID  *string
	EntityType  string
	EntityID    string
	TaskCount   int
}

type ChecklistEventHandler = Handler[ChecklistEvent]
type ChecklistEventBus = Bus[ChecklistEventType, ChecklistEvent]

func NewChecklistEventBus() *ChecklistEventBus {
	return NewBus[ChecklistEventType, ChecklistEvent]()
}
