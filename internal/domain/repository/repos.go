package repository

// Repos agrupa los repositorios atados a una misma conexión o transacción.
// Los casos de uso lo reciben desde el TxRunner para operar en una sola unidad de trabajo.
type Repos struct {
	Locations  LocationRepository
	Products   ProductRepository
	Movements  StockMovementRepository
	Balances   StockBalanceRepository
	Bills      BillRepository
	Customers  CustomerRepository
	Suppliers  SupplierRepository
	MoneyBoxes MoneyBoxRepository
	Vouchers   PaymentVoucherRepository
}
