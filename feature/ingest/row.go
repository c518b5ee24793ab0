package ingest

// Row is one question row of an import batch. Module and set metadata arrive
// denormalized on every row; the engine folds them into module and set
// records exactly once per distinct code.
type Row struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	MoreInfo string `json:"moreInfo"`

	ModuleCode        string `json:"moduleCode"`
	ModuleName        string `json:"moduleName"`
	ModuleDescription string `json:"moduleDescription"`

	SetCode        string `json:"setCode"`
	SetGroup       string `json:"setGroup"`
	SetName        string `json:"setName"`
	SetDescription string `json:"setDescription"`
	// SetOrder is a composite token of the form "<moduleToken>.<numericOrder>";
	// the suffix after the first dot must parse as a positive number.
	SetOrder string `json:"setOrder"`

	Category     string `json:"category"`
	SubCategory1 string `json:"subCategory1"`
	SubCategory2 string `json:"subCategory2"`
	SerialNumber string `json:"serialNumber"`
}

// ModuleMeta is the optional per-module metadata block of the spreadsheet
// upload variant. It is folded onto the matching rows before processing.
type ModuleMeta struct {
	Module            string `json:"module"`
	ModuleName        string `json:"moduleName"`
	ModuleDescription string `json:"moduleDescription"`
}

// Result aggregates the counts of one processed batch.
type Result struct {
	ModulesCreated   int `json:"modulesCreated"`
	ModulesUpdated   int `json:"modulesUpdated"`
	SetsCreated      int `json:"setsCreated"`
	SetsUpdated      int `json:"setsUpdated"`
	QuestionsCreated int `json:"questionsCreated"`
}

// Options controls one engine invocation.
type Options struct {
	// Replace wipes all modules, sets and questions before processing.
	Replace bool
	// CreatedBy is the provenance recorded on created records ("admin" or
	// "user"). Defaults to admin.
	CreatedBy string
}
