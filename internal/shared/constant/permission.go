package constant

// Casbin objects.
const (
	PermAuthMgmtUsers    = "auth:mgmt:users"
	PermDeliveryMgmtLogs = "delivery:mgmt:logs"
)

// Casbin actions.
const (
	PermActRead   = "read"
	PermActCreate = "create"
	PermActUpdate = "update"
	PermActDelete = "delete"
	PermActExport = "export"
)
