// Package fuzztests houses Go fuzz harnesses that exercise the srchash
// pipeline (source -> lexer -> classify -> substitute -> emit). Its goal is
// to smoke test robustness and guard against panics or broken token spans on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер и полный конвейер с детерминированной солью.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/dialect,
// internal/diag, internal/driver, internal/testkit.

package fuzztests
