package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"exam:view",
		"bank:view",
		"user:change_password",
	},
	"teacher": {
		"exam:create",
		"exam:edit",
		"exam:delete",
		"exam:view",
		"exam:publish",
		"exam:export",
		"bank:view",
		"bank:edit",
		"bank:solve",
		"paper:view",
		"paper:edit",
		"paper:export",
		"upload:image",
		"users:list",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
