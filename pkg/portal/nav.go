package portal

// NavItem is one entry of the navigation tree: either a flat item with a
// direct link, or a group header whose children carry the links. Trees are
// at most two levels deep.
//
// Visibility is decided per node by its allowed-roles set, so a future role
// can be granted a subset of another role's children without duplicating
// the parent.
type NavItem struct {
	Label    string
	Link     string
	Icon     string
	Roles    []Role
	Children []NavItem
}

func (n NavItem) allows(role Role) bool {
	for _, allowed := range n.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Menu filters the given navigation tree down to the entries visible to the
// role. Both levels are filtered; a group whose children are all filtered
// out disappears entirely.
func Menu(items []NavItem, role Role) []NavItem {
	visible := make([]NavItem, 0, len(items))
	for _, item := range items {
		if !item.allows(role) {
			continue
		}

		if len(item.Children) == 0 {
			visible = append(visible, item)
			continue
		}

		children := make([]NavItem, 0, len(item.Children))
		for _, child := range item.Children {
			if child.allows(role) {
				children = append(children, child)
			}
		}
		if len(children) == 0 {
			continue
		}
		item.Children = children
		visible = append(visible, item)
	}
	return visible
}

// DefaultMenu is the hand-authored navigation tree of the dormitory portal.
func DefaultMenu() []NavItem {
	all := []Role{RoleStudent, RoleSupervisor, RoleAdmin}
	staff := []Role{RoleSupervisor, RoleAdmin}
	admin := []Role{RoleAdmin}
	student := []Role{RoleStudent}

	return []NavItem{
		{Label: "Dashboard", Link: "/", Icon: "home", Roles: all},
		{
			Label: "Housing", Icon: "building", Roles: all,
			Children: []NavItem{
				{Label: "Blocks", Link: "/housing/blocks", Roles: all},
				{Label: "Rooms", Link: "/housing/rooms", Roles: all},
			},
		},
		{
			Label: "Applications", Icon: "file-text", Roles: all,
			Children: []NavItem{
				{Label: "My Applications", Link: "/applications/mine", Roles: student},
				{Label: "Apply for Housing", Link: "/applications/new", Roles: student},
				{Label: "Review Applications", Link: "/applications", Roles: staff},
				{Label: "Room Changes", Link: "/applications/room-changes", Roles: staff},
				{Label: "Auto Allocation", Link: "/applications/allocate", Roles: admin},
			},
		},
		{
			Label: "Issues", Icon: "alert-circle", Roles: all,
			Children: []NavItem{
				{Label: "Report an Issue", Link: "/issues/new", Roles: student},
				{Label: "My Issues", Link: "/issues/mine", Roles: student},
				{Label: "Triage", Link: "/issues", Roles: staff},
			},
		},
		{Label: "Rules", Link: "/rules", Icon: "book", Roles: all},
		{Label: "Announcements", Link: "/announcements", Icon: "megaphone", Roles: all},
		{Label: "Reports", Link: "/reports/occupancy", Icon: "bar-chart", Roles: staff},
		{
			Label: "Administration", Icon: "settings", Roles: staff,
			Children: []NavItem{
				{Label: "Pending Accounts", Link: "/admin/accounts", Roles: staff},
				{Label: "Manage Housing", Link: "/admin/housing", Roles: admin},
				{Label: "Manage Rules", Link: "/admin/rules", Roles: admin},
				{Label: "Publish Announcement", Link: "/admin/announcements", Roles: admin},
			},
		},
	}
}
