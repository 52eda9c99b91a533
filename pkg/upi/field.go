package upi

// Field identifies a parameter of the UPI vocabulary.
type Field int

// Declaration order is the wire order used by Build.
const (
	PayeeAddress Field = iota
	PayeeName
	Amount
	Currency
	TransactionNote
	TransactionRef
	MerchantCode
	TransactionID

	fieldCount
)

var fieldInfo = [fieldCount]struct {
	code string
	name string
}{
	PayeeAddress:    {"pa", "payee_address"},
	PayeeName:       {"pn", "payee_name"},
	Amount:          {"am", "amount"},
	Currency:        {"cu", "currency"},
	TransactionNote: {"tn", "transaction_note"},
	TransactionRef:  {"tr", "transaction_ref"},
	MerchantCode:    {"mc", "merchant_code"},
	TransactionID:   {"tid", "transaction_id"},
}

// Fields returns the vocabulary in wire order.
func Fields() []Field {
	fields := make([]Field, 0, fieldCount)
	for f := range fieldCount {
		fields = append(fields, f)
	}
	return fields
}

// Code returns the wire code, e.g. "pa".
func (f Field) Code() string {
	if !f.valid() {
		return ""
	}
	return fieldInfo[f].code
}

// Name returns the semantic key, e.g. "payee_address".
func (f Field) Name() string {
	if !f.valid() {
		return ""
	}
	return fieldInfo[f].name
}

func (f Field) String() string { return f.Name() }

func (f Field) Required() bool { return f == PayeeAddress }

func (f Field) valid() bool { return f >= 0 && f < fieldCount }

// LookupCode finds the field for a wire code. Codes are case-sensitive.
func LookupCode(code string) (Field, bool) {
	for f := range fieldCount {
		if fieldInfo[f].code == code {
			return f, true
		}
	}
	return 0, false
}

// LookupName finds the field for a semantic key.
func LookupName(name string) (Field, bool) {
	for f := range fieldCount {
		if fieldInfo[f].name == name {
			return f, true
		}
	}
	return 0, false
}

// Lookup accepts either a semantic key or a wire code.
func Lookup(key string) (Field, bool) {
	if f, ok := LookupName(key); ok {
		return f, true
	}
	return LookupCode(key)
}
