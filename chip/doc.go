// Package chip implements the IC10 program compiler and instruction
// execution engine.
//
// A Chip holds a register file of 18 floating slots (sp and ra at the
// top), 512 slots of stack memory, the compiled operation list, and the
// alias/define/jump-tag name tables. Compilation is a full-program
// rebuild; execution is cooperative, driven one tick at a time by the
// host with a fixed instruction budget.
//
// Operands resolve through an ordered set of strategies per operand
// kind: defines, aliases, register/device chains (extra leading `r`
// characters add levels of indirection), jump tags, and literals.
// Aliases are run-time bindings; defines and jump tags bind at compile
// time.
package chip
