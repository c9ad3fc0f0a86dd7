package indexes

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ridge/must/v2"
)

// MaxNameLength is the longest allowed index name. 30 characters keeps names
// portable across backends with the tightest identifier limits.
const MaxNameLength = 30

// nameSuffix terminates every synthesized index name.
const nameSuffix = "idx"

// namesDigest fingerprints the arguments for name uniqueness. md5 is used
// for stability across runs and platforms, not for security.
func namesDigest(length int, args ...string) string {
	h := md5.New()
	for _, arg := range args {
		must.OK1(io.WriteString(h, arg))
	}
	return hex.EncodeToString(h.Sum(nil))[:length]
}

// splitIdentifier splits a possibly quoted, schema-qualified storage name of
// the form `"schema"."table"` into its parts.
func splitIdentifier(identifier string) (namespace, name string) {
	namespace, name, found := strings.Cut(identifier, `"."`)
	if !found {
		return "", strings.Trim(identifier, `"`)
	}
	return strings.Trim(namespace, `"`), strings.Trim(name, `"`)
}

// truncate shortens a string to at most n characters.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// AssignName synthesizes and sets the canonical name of an unnamed index:
// the table name, the first key column and a digest of the table plus the
// full ordered column list, joined with underscores and terminated with
// "idx". The result always fits MaxNameLength. An index that already has a
// name keeps it.
func (ix *Index) AssignName(table Table) error {
	if ix.name != "" {
		return nil
	}
	_, tableName := splitIdentifier(table.StorageName())
	columnNames := make([]string, len(ix.fieldNames))
	for i, fieldName := range ix.fieldNames {
		column, err := table.ResolveColumn(fieldName)
		if err != nil {
			return err
		}
		columnNames[i] = column
	}
	columnsWithOrder := make([]string, len(columnNames))
	for i, column := range columnNames {
		if strings.HasPrefix(ix.fields[i], "-") {
			column = "-" + column
		}
		columnsWithOrder[i] = column
	}
	hashData := append([]string{tableName}, columnsWithOrder...)
	hashData = append(hashData, nameSuffix)
	name := fmt.Sprintf("%s_%s_%s_%s",
		truncate(tableName, 11), truncate(columnNames[0], 7), namesDigest(6, hashData...), nameSuffix)
	if utf8.RuneCountInString(name) > MaxNameLength {
		panic(fmt.Sprintf("synthesized index name %q is longer than %d characters", name, MaxNameLength))
	}
	// names starting with an underscore or a digit are not portable
	if first, size := utf8.DecodeRuneInString(name); first == '_' || unicode.IsDigit(first) {
		name = "D" + name[size:]
	}
	ix.name = name
	return nil
}
