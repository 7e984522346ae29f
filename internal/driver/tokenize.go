package driver

import (
	"srchash/internal/diag"
	"srchash/internal/dialect"
	"srchash/internal/lexer"
	"srchash/internal/source"
	"srchash/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Dialect dialect.Dialect
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path with the pipeline's encoding and dialect rules and
// returns every token up to and including EOF.
func (p *Pipeline) Tokenize(path string) (*TokenizeResult, error) {
	// Создаём FileSet и загружаем файл
	fs := source.NewFileSet()
	file, err := p.Load(fs, path)
	if err != nil {
		return nil, err
	}
	d := p.DialectFor(file.Path)

	// Создаём диагностический пакет
	bag := diag.NewBag(p.cfg.MaxDiagnostics)
	tokens := lexer.All(file, lexer.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Dialect:  d,
	})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Dialect: d,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
