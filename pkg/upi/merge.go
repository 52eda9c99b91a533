package upi

// ModifyRequest carries the overrides applied to a parsed FieldSet.
// Only present values are applied; a present empty value clears the field.
type ModifyRequest = FieldSet

// Merge returns base with every present key of req applied. Keys absent
// from req keep their value from base. base is not modified.
func Merge(base FieldSet, req ModifyRequest) FieldSet {
	out := base.Clone()
	for f := range fieldCount {
		if v := req.Field(f); v.Valid {
			out.SetField(f, v)
		}
	}
	for _, p := range req.extra {
		out.Set(p.Code, p.Value)
	}
	return out
}
