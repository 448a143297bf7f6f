package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"candidate": {
		"session:create-own",
		"session:view-own",
		"answer:submit",
		"session:adjust",
		"session:submit",
		"results:view-own",
		"exam:view", // student-safe reads only; keys are stripped
	},
	"proctor": {
		"session:view-all",
		"results:view-all",
		"grade:apply",
		"exam:create",
		"exam:view",
		"level:list",
	},
	"admin": {
		"*", // everything
	},
}
