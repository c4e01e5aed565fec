package chip

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

var (
	hashRe   = regexp.MustCompile(`HASH\("([^"]*)"\)`)
	stringRe = regexp.MustCompile(`"([^"]*)"`)
	labelRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

const packLimit = 6 // chars packable into a 48-bit-safe float

// packString packs a short ASCII string into a single float value.
func packString(text string) (value float64, ok bool) {
	if len(text) > packLimit {
		return
	}
	packed := uint64(0)
	for _, c := range []byte(text) {
		if c >= 0x80 {
			return
		}
		packed = packed<<8 | uint64(c)
	}
	return float64(packed), true
}

// preprocess rewrites hash and string literals into their numeric text.
// Comment truncation has already happened.
func preprocess(line string) (out string, err error) {
	out = hashRe.ReplaceAllStringFunc(line, func(m string) string {
		name := hashRe.FindStringSubmatch(m)[1]
		return strconv.FormatInt(int64(HashString(name)), 10)
	})
	if strings.Contains(out, `HASH(`) {
		err = ErrHashLiteral
		return
	}

	out = stringRe.ReplaceAllStringFunc(out, func(m string) string {
		text := stringRe.FindStringSubmatch(m)[1]
		value, ok := packString(text)
		if !ok {
			err = ErrStringLiteral
			return m
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	})
	if err != nil {
		return
	}
	if strings.Contains(out, `"`) {
		err = ErrStringLiteral
	}
	return
}

// splitLines normalizes line endings and splits the source text.
func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	return strings.Split(source, "\n")
}

// Compile rebuilds the whole program from source text. All name tables
// are cleared, the stack pointer is zeroed and the standard db/sp/ra
// aliases reinstalled before any user line is processed. The first
// failing line records the compile error slot and aborts: earlier lines
// stay compiled, later lines are left unparsed.
func (chip *Chip) Compile(source string) (err error) {
	chip.resetTables()
	chip.Ops = chip.Ops[:0]
	chip.Counter = 0
	chip.CompileError = nil
	chip.RunError = nil
	chip.sleep = sleepTimer{}

	for lineno, text := range splitLines(source) {
		if chip.Verbose {
			log.Printf("compile %v: %v", lineno+1, text)
		}

		err = chip.compileLine(text, lineno)
		if err != nil {
			chip.CompileError = &LineError{Line: lineno, Err: err}
			err = chip.CompileError
			return
		}
	}

	return
}

// compileLine appends exactly one Operation for the source line, or
// fails with a compile-time error kind.
func (chip *Chip) compileLine(text string, lineno int) (err error) {
	line := text
	if cut := strings.IndexByte(line, '#'); cut >= 0 {
		line = line[:cut]
	}

	line, err = preprocess(line)
	if err != nil {
		return
	}

	words := strings.Fields(line)

	nop := Operation{LineNo: lineno, Text: text}

	if len(words) == 0 {
		chip.Ops = append(chip.Ops, nop)
		return
	}

	if len(words) == 1 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !labelRe.MatchString(label) {
			err = ErrUnknownInstruction
			return
		}
		if _, ok := chip.Tags[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		chip.Tags[label] = lineno
		chip.Ops = append(chip.Ops, nop)
		return
	}

	spec, ok := opcodeTable[words[0]]
	if !ok {
		err = ErrUnknownInstruction
		return
	}

	args := words[1:]
	if len(args) != len(spec.Args) {
		err = ErrArgumentCount
		return
	}

	op := Operation{LineNo: lineno, Text: text, Spec: &spec}
	for _, arg := range args {
		tok := Classify(arg)
		if (arg[0] == '$' || arg[0] == '%') && tok.Shape != ShapeNumber {
			err = ErrNumberLiteral
			return
		}
		op.Args = append(op.Args, tok)
	}

	if spec.Class == ClassDefine {
		err = chip.compileDefine(op)
		if err != nil {
			return
		}
	}

	chip.Ops = append(chip.Ops, op)
	return
}

// compileDefine binds a define at compile time. The binding is
// write-once; the operation itself is a no-op when executed.
func (chip *Chip) compileDefine(op Operation) (err error) {
	name := op.Args[0]
	value := op.Args[1]

	if name.Shape != ShapeName || value.Shape != ShapeNumber {
		err = ErrNumberLiteral
		return
	}
	if _, ok := chip.Defines[name.Raw]; ok {
		err = ErrDefineDuplicate
		return
	}

	chip.Defines[name.Raw] = value.Number
	return
}
