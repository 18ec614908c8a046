// Package migrations expone los scripts SQL embebidos en el binario.
package migrations

import "embed"

// FS contiene los archivos *.sql en orden lexicográfico.
//
//go:embed *.sql
var FS embed.FS
