package eventbus

type TaskEventType string

const (
	TaskEventCompleted  TaskEventType = "TaskCompleted"
	TaskEventBulkStatus TaskEventType = "TaskBulkStatus"
)

// TaskEvent announces task status changes. For bulk updates, Affected carries
// the matched row count and TaskID is empty.
type TaskEvent struct {
	Type        TaskEventType
	TeamID      string
	TaskID      string
	ChecklistID *string
	Status      string
	Affected    int64
}

type TaskEventHandler = Handler[TaskEvent]
type TaskEventBus = Bus[TaskEventType, TaskEvent]

func NewTaskEventBus() *TaskEventBus {
	return NewBus[TaskEventType, TaskEvent]()
}
