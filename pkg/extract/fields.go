package extract

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const (
	fieldDelimiter  = ","
	doubleDelimiter = fieldDelimiter + fieldDelimiter
)

// ErrRowNotFound は、ページ内に対象の成績行が見つからなかったことを示します。
var ErrRowNotFound = errors.New("成績行が見つかりませんでした")

// Locate は page から pattern に一致する occurrence 番目 (0始まり) の断片を返します。
// 一致が足りない場合は false を返します。
func Locate(page string, pattern *regexp.Regexp, occurrence int) (string, bool) {
	if occurrence < 0 {
		return "", false
	}
	matches := pattern.FindAllString(page, occurrence+1)
	if len(matches) <= occurrence {
		return "", false
	}
	return matches[occurrence], true
}

// SplitFields は、HTML断片からタグを取り除き、閉じタグの位置で区切ったフィールドの一覧を返します。
//
// ",," は左から重ならないように1回だけ "," に置き換えます。入れ子の閉じタグ
// (</a></td> など) による重複は消えますが、空セルが続く箇所には空のフィールドが残ります。
// '%' は除去されますが、空白を含むそれ以外の文字はそのまま残します。
func SplitFields(fragment string) []string {
	var b strings.Builder

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			b.Write(z.Text())
		case html.EndTagToken:
			b.WriteString(fieldDelimiter)
		}
	}

	cleaned := strings.ReplaceAll(b.String(), doubleDelimiter, fieldDelimiter)
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	cleaned = strings.Trim(cleaned, fieldDelimiter)
	if cleaned == "" {
		return []string{}
	}
	return strings.Split(cleaned, fieldDelimiter)
}

// DropLeading は先頭の n 件を除いたフィールドを返します。
// n 件に満たない場合は空のスライスを返します。
func DropLeading(fields []string, n int) []string {
	if len(fields) <= n {
		return []string{}
	}
	out := make([]string, len(fields)-n)
	copy(out, fields[n:])
	return out
}
