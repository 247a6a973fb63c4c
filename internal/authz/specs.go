package authz

import "github.com/caterline-erp/caterline-erp/internal/shared"

// Deploy-time requirement specs for every protected route group. Handlers
// reference these instead of building specs inline so the whole surface can
// be validated against the module catalog before the server listens.
var (
	SpecUsersView  = RequireAny(Cap(shared.ModuleUsers, ActionView))
	SpecUsersWrite = RequireAny(Cap(shared.ModuleUsers, ActionAdd), Cap(shared.ModuleUsers, ActionEdit))

	SpecRightsView = RequireAny(Cap(shared.ModuleRights, ActionView))
	SpecRightsEdit = RequireAll(Cap(shared.ModuleRights, ActionEdit))

	SpecReportsView  = RequireAny(Cap(shared.ModuleReports, ActionView))
	SpecReportsPrint = RequireAll(Cap(shared.ModuleReports, ActionPrint))

	SpecEventTypesView   = RequireAny(Cap(shared.ModuleEventTypes, ActionView))
	SpecEventTypesAdd    = RequireAll(Cap(shared.ModuleEventTypes, ActionAdd))
	SpecEventTypesEdit   = RequireAll(Cap(shared.ModuleEventTypes, ActionEdit))
	SpecEventTypesDelete = RequireAll(Cap(shared.ModuleEventTypes, ActionDelete))

	SpecKitchenAreasView   = RequireAny(Cap(shared.ModuleKitchenAreas, ActionView))
	SpecKitchenAreasAdd    = RequireAll(Cap(shared.ModuleKitchenAreas, ActionAdd))
	SpecKitchenAreasEdit   = RequireAll(Cap(shared.ModuleKitchenAreas, ActionEdit))
	SpecKitchenAreasDelete = RequireAll(Cap(shared.ModuleKitchenAreas, ActionDelete))

	SpecPurchaseOrdersView = RequireAny(Cap(shared.ModulePurchaseOrders, ActionView))
	SpecPurchaseOrdersAdd  = RequireAll(Cap(shared.ModulePurchaseOrders, ActionAdd))
	// Approving a purchase order both edits it and emits the approval
	// document, so it demands EDIT and PRINT together.
	SpecPurchaseOrdersApprove = RequireAll(
		Cap(shared.ModulePurchaseOrders, ActionEdit),
		Cap(shared.ModulePurchaseOrders, ActionPrint),
	)
)

// DeclaredSpecs lists every spec above for startup catalog validation.
func DeclaredSpecs() []RequirementSpec {
	return []RequirementSpec{
		SpecUsersView,
		SpecUsersWrite,
		SpecRightsView,
		SpecRightsEdit,
		SpecReportsView,
		SpecReportsPrint,
		SpecEventTypesView,
		SpecEventTypesAdd,
		SpecEventTypesEdit,
		SpecEventTypesDelete,
		SpecKitchenAreasView,
		SpecKitchenAreasAdd,
		SpecKitchenAreasEdit,
		SpecKitchenAreasDelete,
		SpecPurchaseOrdersView,
		SpecPurchaseOrdersAdd,
		SpecPurchaseOrdersApprove,
	}
}
