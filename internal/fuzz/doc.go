// Package fuzztests houses Go fuzz harnesses for the snapshot boundary: raw
// bytes are decoded into a model and, when that succeeds, linted with every
// registered rule. The goal is to catch panics and hangs on malformed input.
//
// Назначение: прогонять произвольные байты через modelio и lint.Runner.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
