package extract

import "strings"

// AliasTable は、チームURLの略称から成績ページで使われる略称への対応表です。
// 移転や改名により、URLと成績ページで略称が異なる球団を補正します。
type AliasTable map[string]string

// DefaultAliases は、既知の略称の不一致を返します。
func DefaultAliases() AliasTable {
	return AliasTable{
		"TBR": "TBD", // Tampa Bay Rays
		"MIA": "FLA", // Miami Marlins
		"LAA": "ANA", // Los Angeles Angels
	}
}

// Resolve は abbr に対応する略称を返します。表にない場合は abbr をそのまま返します。
func (t AliasTable) Resolve(abbr string) string {
	if alias, ok := t[abbr]; ok && alias != "" {
		return alias
	}
	return abbr
}

// Normalize は、キーと値を大文字に揃えた新しい表を返します。
// 設定ファイル経由で読み込んだ表はキーが小文字化されるため、読み込み後に呼び出します。
func (t AliasTable) Normalize() AliasTable {
	normalized := make(AliasTable, len(t))
	for k, v := range t {
		normalized[strings.ToUpper(strings.TrimSpace(k))] = strings.ToUpper(strings.TrimSpace(v))
	}
	return normalized
}
