package value

// String's own String prints the raw text, unquoted: print_value("hi")
// prints hi, not "hi".
func (v String) String() string { return string(v) }
