package model

// Privilege represents a permission granted to a role
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "pos:checkout"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Process Checkout"
}

// Privilege codes checked by the route middleware.
const (
	PrivPOSCheckout     = "pos:checkout"
	PrivStockIn         = "stock:in"
	PrivDashboardSelf   = "dashboard:self"
	PrivTransactionView = "transaction:view"
	PrivDashboardView   = "dashboard:view"
	PrivReportView      = "report:view"
	PrivCategoryManage  = "category:manage"
	PrivProductManage   = "product:manage"
	PrivInventoryManage = "inventory:manage"
	PrivEmployeeManage  = "employee:manage"
	PrivSettingUpdate   = "setting:update"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Register floor
	{Code: PrivPOSCheckout, Name: "Process Checkout"},
	{Code: PrivStockIn, Name: "Stock In"},
	{Code: PrivDashboardSelf, Name: "View Own Dashboard"},
	{Code: PrivTransactionView, Name: "View Transactions"},
	// Back office
	{Code: PrivDashboardView, Name: "View Admin Dashboard"},
	{Code: PrivReportView, Name: "View Reports"},
	{Code: PrivCategoryManage, Name: "Manage Categories"},
	{Code: PrivProductManage, Name: "Manage Products"},
	{Code: PrivInventoryManage, Name: "Manage Inventory"},
	{Code: PrivEmployeeManage, Name: "Manage Employees"},
	{Code: PrivSettingUpdate, Name: "Update Settings"},
}

// UserPrivilegeCodes is the subset granted to the USER role.
var UserPrivilegeCodes = []string{
	PrivPOSCheckout,
	PrivStockIn,
	PrivDashboardSelf,
}
