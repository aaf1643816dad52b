package pricelist

// AliasSet lists, per canonical field, the column names tried in order.
type AliasSet struct {
	SKU             []string `yaml:"sku"`
	OldTitle        []string `yaml:"old_title"`
	NewTitle        []string `yaml:"new_title"`
	OldSupplierCode []string `yaml:"old_supplier_code"`
	NewSupplierCode []string `yaml:"new_supplier_code"`
	OldBarcode      []string `yaml:"old_barcode"`
	NewBarcode      []string `yaml:"new_barcode"`
	OldPackSize     []string `yaml:"old_pack_size"`
	NewPackSize     []string `yaml:"new_pack_size"`
	RetailPrice     []string `yaml:"retail_price"`

	// SchemaOldNew
	OldPrice []string `yaml:"old_price"`
	NewPrice []string `yaml:"new_price"`
	// SchemaCurrentUpdated
	CurrentPrice []string `yaml:"current_price"`
	UpdatedPrice []string `yaml:"updated_price"`
	// SchemaSinglePrice
	Price []string `yaml:"price"`
}

// DefaultAliases covers the supplier layouts seen so far.
var DefaultAliases = AliasSet{
	SKU:             []string{"SKU", "Item_Code", "ProductCode", "sku", "product_id"},
	OldTitle:        []string{"OldName", "Old_Name", "OldTitle", "Old_Description", "Name", "Title", "Description", "Product_Name", "name"},
	NewTitle:        []string{"NewName", "New_Name", "NewTitle", "New_Description", "Name", "Title", "Description", "Product_Name", "name"},
	OldSupplierCode: []string{"OldSupplierCode", "Old_Supplier_Code", "SupplierCode", "Supplier_Code", "supplier_code"},
	NewSupplierCode: []string{"NewSupplierCode", "New_Supplier_Code", "SupplierCode", "Supplier_Code", "supplier_code"},
	OldBarcode:      []string{"OldBarcode", "Old_Barcode", "Barcode", "EAN", "barcode"},
	NewBarcode:      []string{"NewBarcode", "New_Barcode", "Barcode", "EAN", "barcode"},
	OldPackSize:     []string{"OldPackSize", "Old_Pack_Size", "PackSize", "Pack_Size", "pack_size"},
	NewPackSize:     []string{"NewPackSize", "New_Pack_Size", "PackSize", "Pack_Size", "pack_size"},
	RetailPrice:     []string{"RetailPrice", "Retail_Price", "RRP", "retail_price"},

	OldPrice:     []string{"OldPrice", "Old_Price", "old_price"},
	NewPrice:     []string{"NewPrice", "New_Price", "new_price"},
	CurrentPrice: []string{"Current_Price", "CurrentPrice", "current_price"},
	UpdatedPrice: []string{"Updated_Price", "UpdatedPrice", "updated_price"},
	Price:        []string{"Price", "Cost", "Unit_Price", "price"},
}

// Merge returns a copy of a where every alias listed in override is tried
// before the existing ones.
func (a AliasSet) Merge(override AliasSet) AliasSet {
	return AliasSet{
		SKU:             prepend(override.SKU, a.SKU),
		OldTitle:        prepend(override.OldTitle, a.OldTitle),
		NewTitle:        prepend(override.NewTitle, a.NewTitle),
		OldSupplierCode: prepend(override.OldSupplierCode, a.OldSupplierCode),
		NewSupplierCode: prepend(override.NewSupplierCode, a.NewSupplierCode),
		OldBarcode:      prepend(override.OldBarcode, a.OldBarcode),
		NewBarcode:      prepend(override.NewBarcode, a.NewBarcode),
		OldPackSize:     prepend(override.OldPackSize, a.OldPackSize),
		NewPackSize:     prepend(override.NewPackSize, a.NewPackSize),
		RetailPrice:     prepend(override.RetailPrice, a.RetailPrice),
		OldPrice:        prepend(override.OldPrice, a.OldPrice),
		NewPrice:        prepend(override.NewPrice, a.NewPrice),
		CurrentPrice:    prepend(override.CurrentPrice, a.CurrentPrice),
		UpdatedPrice:    prepend(override.UpdatedPrice, a.UpdatedPrice),
		Price:           prepend(override.Price, a.Price),
	}
}

// priceAliases returns the old and new price columns for a schema.
func (a AliasSet) priceAliases(schema Schema) (oldCols, newCols []string) {
	switch schema {
	case SchemaOldNew:
		return a.OldPrice, a.NewPrice
	case SchemaCurrentUpdated:
		return a.CurrentPrice, a.UpdatedPrice
	default:
		return a.Price, a.Price
	}
}

func prepend(first, rest []string) []string {
	out := make([]string, 0, len(first)+len(rest))
	seen := make(map[string]struct{}, len(first)+len(rest))
	for _, list := range [][]string{first, rest} {
		for _, k := range list {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
