package permissions

import "strings"

// IsAdmin проверяет, дает ли набор глобальных ролей права администратора
func IsAdmin(roles RoleSet) bool {
	return roles.Has(RoleAdmin)
}

// IsModerator проверяет, дает ли набор глобальных ролей права модератора
func IsModerator(roles RoleSet) bool {
	return roles.Has(RoleModerator)
}

// IsLeader проверяет, содержит ли набор ролей участия роль руководителя
func IsLeader(roles RoleSet) bool {
	return roles.Has(RoleLeader)
}

// Capabilities представляет вычисленные права пользователя в рамках
// одного проекта
type Capabilities struct {
	ManageMembers bool `json:"manage_members"`
	ManageTasks   bool `json:"manage_tasks"`
	ReviewTasks   bool `json:"review_tasks"`
}

// Evaluate вычисляет права пользователя из его глобальных ролей, роли
// участия в проекте и признака членства. Это единственное место, где
// заданы ребра иерархии ролей:
//   - админ получает все права во всех проектах;
//   - глобальный модератор получает права на задачи только в проектах,
//     где он состоит участником;
//   - руководитель проекта получает права модератора в своем проекте,
//     даже если роль "модератор" в строке участия не указана.
//
// Отсутствие членства и админских прав означает отсутствие всех прав:
// разрешение всегда выводится из явного свидетельства, по умолчанию —
// отказ.
func Evaluate(global RoleSet, membership RoleSet, isMember bool) Capabilities {
	admin := IsAdmin(global)
	taskRights := admin || (isMember && (IsModerator(global) || IsLeader(membership)))
	return Capabilities{
		ManageMembers: admin,
		ManageTasks:   taskRights,
		ReviewTasks:   taskRights,
	}
}

// CanManageMembers проверяет право управлять составом проекта.
// Управление участниками доступно только администраторам, делегирования
// на уровне проекта нет.
func CanManageMembers(globalRole string) bool {
	return IsAdmin(ParseRoles(globalRole))
}

// CanManageTasks проверяет право управлять задачами проекта
func CanManageTasks(globalRole, membershipRole string, isMember bool) bool {
	return Evaluate(ParseRoles(globalRole), ParseRoles(membershipRole), isMember).ManageTasks
}

// CanReviewTasks проверяет право проверять выполнение задач проекта.
// Проверка и управление задачами разделяют одну границу доступа.
func CanReviewTasks(globalRole, membershipRole string, isMember bool) bool {
	return Evaluate(ParseRoles(globalRole), ParseRoles(membershipRole), isMember).ReviewTasks
}

// NormalizeMemberRole дополняет сохраняемую роль участия: руководителю
// без явной роли модератора дописывается ", Модератор", чтобы строка
// роли читалась полно и в других местах интерфейса.
func NormalizeMemberRole(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return role
	}
	roles := ParseRoles(role)
	if IsLeader(roles) && !IsModerator(roles) {
		return role + ", Модератор"
	}
	return role
}

// InvalidRoleCombo проверяет недопустимое сочетание ролей участия:
// разработчик не может одновременно быть админом
func InvalidRoleCombo(role string) bool {
	roles := ParseRoles(role)
	return roles.Has(RoleDeveloper) && roles.Has(RoleAdmin)
}
