package shared

// Catering business module codes.
const (
	ModuleEventTypes     = "EVENT_TYPES"
	ModuleKitchenAreas   = "KITCHEN_AREAS"
	ModulePurchaseOrders = "PURCHASE_ORDERS"
	ModuleGodown         = "GODOWN"
	ModuleVouchers       = "VOUCHERS"
	ModuleInvoices       = "INVOICES"
)

// CateringModules lists module codes owned by the catering business area.
func CateringModules() []string {
	return []string{
		ModuleEventTypes,
		ModuleKitchenAreas,
		ModulePurchaseOrders,
		ModuleGodown,
		ModuleVouchers,
		ModuleInvoices,
	}
}
