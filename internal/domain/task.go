package domain

import "strings"

// TaskStatus представляет статус задачи в жизненном цикле
type TaskStatus string

// Возможные статусы задачи. Значения совпадают с отображаемыми
// строками внешнего хранилища.
const (
	StatusNew           TaskStatus = "Новая"       // задача создана, работа не начата
	StatusInProgress    TaskStatus = "В работе"    // исполнитель взял задачу в работу
	StatusPendingReview TaskStatus = "На проверке" // исполнитель отправил выполнение на проверку
	StatusDone          TaskStatus = "Выполнена"   // проверяющий принял выполнение
	StatusRejected      TaskStatus = "Отклонена"   // проверяющий вернул задачу на доработку
)

// AllTaskStatuses перечисляет допустимые статусы в порядке жизненного цикла
var AllTaskStatuses = []TaskStatus{
	StatusNew,
	StatusInProgress,
	StatusPendingReview,
	StatusDone,
	StatusRejected,
}

// ParseTaskStatus преобразует строку статуса из внешнего хранилища в
// закрытый набор статусов. Это единственная точка конвертации: хранилище
// может вернуть произвольную строку, нераспознанное значение приводится
// к StatusNew, а не отклоняется.
func ParseTaskStatus(raw string) TaskStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "новая", "new":
		return StatusNew
	case "в работе", "in progress", "in_progress":
		return StatusInProgress
	case "на проверке", "pending review", "pending_review":
		return StatusPendingReview
	case "выполнена", "done", "completed":
		return StatusDone
	case "отклонена", "rejected":
		return StatusRejected
	default:
		return StatusNew
	}
}

// CanSubmitCompletion сообщает, можно ли из данного статуса отправить
// выполнение на проверку. Отклоненная задача не финальна: исполнитель
// дорабатывает и отправляет ее повторно.
func (s TaskStatus) CanSubmitCompletion() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusRejected:
		return true
	default:
		return false
	}
}

// CanReview сообщает, можно ли из данного статуса вынести вердикт
func (s TaskStatus) CanReview() bool {
	return s == StatusPendingReview
}

// ReviewVerdict возвращает статус, в который переходит задача после
// вердикта проверяющего
func ReviewVerdict(approved bool) TaskStatus {
	if approved {
		return StatusDone
	}
	return StatusRejected
}

// Task представляет задачу проекта
type Task struct {
	ID                int        `json:"id"`
	ProjectID         int        `json:"id_project"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Deadline          string     `json:"deadline"`
	Status            TaskStatus `json:"status"`
	Assignee          string     `json:"user"`
	AssigneeID        int64      `json:"id_user"`
	Author            string     `json:"author"`
	CompletionMessage string     `json:"completion_message,omitempty"`
	ReviewMessage     string     `json:"review_message,omitempty"`
	ReviewedBy        string     `json:"reviewed_by,omitempty"`
	ReviewedAt        string     `json:"reviewed_at,omitempty"`
}

// IsAssigned проверяет, назначен ли у задачи исполнитель
func (t *Task) IsAssigned() bool {
	return t.Assignee != "" || t.AssigneeID != 0
}
