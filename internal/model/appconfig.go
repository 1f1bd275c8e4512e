package model

// InventoryColumns maps inventory sheet headers to their roles.
type InventoryColumns struct {
	Active     string `yaml:"active" json:"active"`
	ID         string `yaml:"id" json:"id"`
	Paper      string `yaml:"paper" json:"paper"`
	Width      string `yaml:"width" json:"width"`
	WidthUnit  string `yaml:"width_unit" json:"width_unit"`
	Length     string `yaml:"length" json:"length"`
	LengthUnit string `yaml:"length_unit" json:"length_unit"`
}

// OrderColumns maps purchase order sheet headers to their roles.
type OrderColumns struct {
	Active      string `yaml:"active" json:"active"`
	Number      string `yaml:"number" json:"number"`
	Code        string `yaml:"code" json:"code"`
	Client      string `yaml:"client" json:"client"`
	OrderNumber string `yaml:"order_number" json:"order_number"`
	Quantity    string `yaml:"quantity" json:"quantity"`
	Area        string `yaml:"area" json:"area"`
}

// ImportConfig holds where and how inventory and orders are read.
type ImportConfig struct {
	InventoryPath     string           `yaml:"inventory_path" json:"inventory_path"`
	InventorySheet    string           `yaml:"inventory_sheet" json:"inventory_sheet"`
	InventoryStartRow int              `yaml:"inventory_start_row" json:"inventory_start_row" validate:"gte=1"`
	OrdersPath        string           `yaml:"orders_path" json:"orders_path"`
	OrdersSheet       string           `yaml:"orders_sheet" json:"orders_sheet"`
	OrdersStartRow    int              `yaml:"orders_start_row" json:"orders_start_row" validate:"gte=1"`
	OrderThreshold    int              `yaml:"order_threshold" json:"order_threshold"` // minimum PO number kept
	ActiveFlag        string           `yaml:"active_flag" json:"active_flag"`
	LengthScale       float64          `yaml:"length_scale" json:"length_scale" validate:"gt=0"`
	Inventory         InventoryColumns `yaml:"inventory" json:"inventory"`
	Orders            OrderColumns     `yaml:"orders" json:"orders"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" json:"format" validate:"oneof=console json"`
}

// AppConfig is the persisted configuration file: engine settings plus the
// ingestion and logging parameters around them.
type AppConfig struct {
	Settings Settings     `yaml:"settings" json:"settings"`
	Import   ImportConfig `yaml:"import" json:"import"`
	Log      LogConfig    `yaml:"log" json:"log"`
	Listen   string       `yaml:"listen" json:"listen"`
}

// DefaultAppConfig returns an AppConfig populated with the column names of
// the standard inventory and purchase order workbooks.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Settings: DefaultSettings(),
		Import: ImportConfig{
			InventorySheet:    "Papier",
			InventoryStartRow: 3,
			OrdersSheet:       "PO Client",
			OrdersStartRow:    1,
			OrderThreshold:    305,
			ActiveFlag:        "A",
			LengthScale:       1000,
			Inventory: InventoryColumns{
				Active:     "Actif / Inactif",
				ID:         "Roll ID",
				Paper:      "Code LabelEdge",
				Width:      "Larg.",
				WidthUnit:  "Unit",
				Length:     "Longueur",
				LengthUnit: "Unit2",
			},
			Orders: OrderColumns{
				Active:      "Actif / Inactif",
				Number:      "No",
				Code:        "Code Prix 1",
				Client:      "Vendu à",
				OrderNumber: "No Commande",
				Quantity:    "Qté totale",
				Area:        "Total msi",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Listen: ":8080",
	}
}

// Validate checks the engine settings and the import parameters.
func (c AppConfig) Validate() error {
	return validate.Struct(c)
}
