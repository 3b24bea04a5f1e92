package invalidation

// DataType es la etiqueta lógica de un conjunto de entradas de caché.
type DataType string

const (
	Inventory DataType = "inventory"
	Stocks    DataType = "stocks"
	Products  DataType = "products"
	Movements DataType = "movements"
	Sales     DataType = "sales"
	Purchases DataType = "purchases"
	Returns   DataType = "returns"
	Customers DataType = "customers"
	Suppliers DataType = "suppliers"
	CashBox   DataType = "cash_box"
	Vouchers  DataType = "vouchers"
)

// Prefijos de clave de las lecturas cacheadas.
const (
	PrefixStocks        = "stocks:"
	PrefixStockProducts = "stock_products:"
	PrefixProduct       = "product:"
	PrefixProducts      = "products:"
	PrefixMovements     = "movements:"
	PrefixSales         = "bills:sale:"
	PrefixPurchases     = "bills:purchase:"
	PrefixReturns       = "bills:return:"
	PrefixCustomers     = "customers:"
	PrefixSuppliers     = "suppliers:"
	PrefixMoneyBoxes    = "money_boxes:"
	PrefixVouchers      = "vouchers:"
)

// StocksKey clave del listado de ubicaciones.
func StocksKey() string { return PrefixStocks + "all" }

// StockProductsKey clave de los productos de una ubicación.
func StockProductsKey(stockID string) string { return PrefixStockProducts + stockID }

// ProductKey clave del detalle de un producto.
func ProductKey(productID string) string { return PrefixProduct + productID }

// prefixes es la tabla estática tipo de dato → prefijos que le pertenecen.
var prefixes = map[DataType][]string{
	Inventory: {PrefixStocks, PrefixStockProducts, PrefixProduct, PrefixProducts},
	Stocks:    {PrefixStocks, PrefixStockProducts},
	Products:  {PrefixProduct, PrefixProducts, PrefixStockProducts},
	Movements: {PrefixMovements},
	Sales:     {PrefixSales},
	Purchases: {PrefixPurchases},
	Returns:   {PrefixReturns},
	Customers: {PrefixCustomers},
	Suppliers: {PrefixSuppliers},
	CashBox:   {PrefixMoneyBoxes},
	Vouchers:  {PrefixVouchers},
}

// PrefixesFor devuelve los prefijos (sin duplicados, en orden de aparición) de los tipos dados.
func PrefixesFor(types ...DataType) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range types {
		for _, p := range prefixes[t] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
