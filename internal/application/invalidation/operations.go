package invalidation

// Operation identifica una mutación que invalida caché. Cada caso de uso la fija en su llamada.
type Operation string

const (
	OpRecordMovement  Operation = "record_movement"
	OpReverseMovement Operation = "reverse_movement"

	OpCreateSale           Operation = "create_sale"
	OpCreatePurchase       Operation = "create_purchase"
	OpCreateSaleReturn     Operation = "create_sale_return"
	OpCreatePurchaseReturn Operation = "create_purchase_return"

	OpUpdateSalePayment           Operation = "update_sale_payment"
	OpUpdatePurchasePayment       Operation = "update_purchase_payment"
	OpUpdateSaleReturnPayment     Operation = "update_sale_return_payment"
	OpUpdatePurchaseReturnPayment Operation = "update_purchase_return_payment"

	OpDeleteSale           Operation = "delete_sale"
	OpDeletePurchase       Operation = "delete_purchase"
	OpDeleteSaleReturn     Operation = "delete_sale_return"
	OpDeletePurchaseReturn Operation = "delete_purchase_return"

	OpLocationChanged Operation = "location_changed"
	OpProductChanged  Operation = "product_changed"
	OpCustomerChanged Operation = "customer_changed"
	OpSupplierChanged Operation = "supplier_changed"
	OpMoneyBoxChanged Operation = "money_box_changed"
)

// operations es la tabla estática operación → tipos de dato afectados.
var operations = map[Operation][]DataType{
	OpRecordMovement:  {Inventory, Movements, Products, Stocks},
	OpReverseMovement: {Inventory, Movements, Products, Stocks},

	OpCreateSale:           {Sales, Inventory, Movements, Customers, CashBox, Vouchers},
	OpCreatePurchase:       {Purchases, Inventory, Movements, Suppliers, CashBox, Vouchers},
	OpCreateSaleReturn:     {Returns, Sales, Inventory, Movements, Customers, CashBox, Vouchers},
	OpCreatePurchaseReturn: {Returns, Purchases, Inventory, Movements, Suppliers, CashBox, Vouchers},

	OpUpdateSalePayment:           {Sales, Customers, CashBox, Vouchers},
	OpUpdatePurchasePayment:       {Purchases, Suppliers, CashBox, Vouchers},
	OpUpdateSaleReturnPayment:     {Returns, Customers, CashBox, Vouchers},
	OpUpdatePurchaseReturnPayment: {Returns, Suppliers, CashBox, Vouchers},

	OpDeleteSale:           {Sales, Inventory, Movements, Customers, CashBox},
	OpDeletePurchase:       {Purchases, Inventory, Movements, Suppliers, CashBox},
	OpDeleteSaleReturn:     {Returns, Sales, Inventory, Movements, Customers, CashBox},
	OpDeletePurchaseReturn: {Returns, Purchases, Inventory, Movements, Suppliers, CashBox},

	OpLocationChanged: {Stocks, Inventory},
	OpProductChanged:  {Products, Inventory},
	OpCustomerChanged: {Customers},
	OpSupplierChanged: {Suppliers},
	OpMoneyBoxChanged: {CashBox},
}

// TypesFor devuelve los tipos de dato que invalida una operación (nil si es desconocida).
func TypesFor(op Operation) []DataType {
	return operations[op]
}
