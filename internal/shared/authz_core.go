package shared

// Core platform module codes. Capability grants are keyed by these codes.
const (
	ModuleDashboard = "DASHBOARD"
	ModuleUsers     = "USERS"
	ModuleRights    = "RIGHTS"
	ModuleReports   = "REPORTS"
)

// CoreModules lists module codes owned by the core platform.
func CoreModules() []string {
	return []string{
		ModuleDashboard,
		ModuleUsers,
		ModuleRights,
		ModuleReports,
	}
}
