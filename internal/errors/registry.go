package errors

// Registered error codes.
const (
	CodeDuplicateID    = "R001"
	CodeEmptyID        = "R002"
	CodeOverlappingRun = "R003"
	CodeNilView        = "R004"
	CodeInvalidCommand = "R005"
)

// template defines a registered error type.
type template struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]template{
	CodeDuplicateID: {
		Category: CategoryInvariant,
		Message:  "Duplicate sibling id",
	},
	CodeEmptyID: {
		Category: CategoryInvariant,
		Message:  "View has an empty id",
	},
	CodeOverlappingRun: {
		Category: CategoryConcurrency,
		Message:  "Diff pass started while another pass is running",
	},
	CodeNilView: {
		Category: CategoryInvariant,
		Message:  "Nil view in tree",
	},
	CodeInvalidCommand: {
		Category: CategoryProtocol,
		Message:  "Invalid command",
	},
}

// Registered reports whether code has a registered template.
func Registered(code string) bool {
	_, ok := registry[code]
	return ok
}
