package mapscript

// Result is the output of one compile call: the emitted DOT text, the
// resolved diagram settings, and every line error encountered. Errors never
// abort compilation; DOT reflects a best-effort build of the valid lines.
type Result struct {
	DOT      string
	Settings Settings
	Errors   []LineError
}

// SplitLines splits document text into the line slice the patch functions
// operate on, tolerating CRLF endings.
func SplitLines(text string) []string {
	return splitLines(text)
}

// Compile turns a whole MapScript document into DOT. It is a pure function
// of the document text: no state survives between calls, and compiling the
// same text twice yields identical output.
func Compile(text string) Result {
	return CompileLines(splitLines(text))
}

// CompileLines is Compile for a document already split into lines, which is
// the form the line-patch editors work in.
func CompileLines(lines []string) Result {
	g := Build(lines)
	return Result{
		DOT:      Emit(g),
		Settings: g.Settings,
		Errors:   g.Errors,
	}
}
