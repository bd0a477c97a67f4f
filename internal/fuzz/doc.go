// Package fuzztests houses Go fuzz harnesses for the front half of the
// analyzer (bytes -> markup scanner / script parser -> engine). Its goal is
// to smoke test robustness and guard against panics or hangs on arbitrary
// inputs.
//
// Назначение: прогонять произвольные байты через markup.Scan,
// parser.ParseScript/ParseComponent и engine.AnalyzeFile.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/markup, internal/parser, internal/engine,
// internal/classify, internal/rules.
package fuzztests
