package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"
)

// Parameters 请求参数
type Parameters map[string]any

type encoderKind int

const (
	kindJSON encoderKind = iota
	kindURL
)

// Encoder 把参数写入请求，JSON 写 body，URL 写查询串或表单
type Encoder struct {
	kind   encoderKind
	params Parameters
}

// JSONEncoder 以按键排序的 JSON 对象写入 body
func JSONEncoder(params Parameters) Encoder {
	return Encoder{kind: kindJSON, params: params}
}

// URLEncoder GET/DELETE 追加到查询串，其它方法写成 x-www-form-urlencoded body
func URLEncoder(params Parameters) Encoder {
	return Encoder{kind: kindURL, params: params}
}

func (e Encoder) encode(req *http.Request) error {
	if e.params == nil {
		return nil
	}
	switch e.kind {
	case kindJSON:
		return encodeJSON(req, e.params)
	case kindURL:
		return encodeURL(req, e.params)
	default:
		return &EncodingError{Err: fmt.Errorf("unknown encoder kind %d", e.kind)}
	}
}

func encodeJSON(req *http.Request, params Parameters) error {
	// encoding/json 对 map 的键排序输出
	data, err := json.Marshal(map[string]any(params))
	if err != nil {
		return &EncodingError{Err: err}
	}
	setBody(req, data)
	req.Header.Set("Content-Type", "application/json")
	return nil
}

func encodeURL(req *http.Request, params Parameters) error {
	query := params.PercentEncoded()
	if Method(req.Method).supportsURLQuery() {
		if query == "" {
			return nil
		}
		if req.URL.RawQuery == "" {
			req.URL.RawQuery = query
		} else {
			req.URL.RawQuery = req.URL.RawQuery + "&" + query
		}
		return nil
	}
	setBody(req, []byte(query))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return nil
}

func setBody(req *http.Request, data []byte) {
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.ContentLength = int64(len(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

// PercentEncoded 生成 key=value&... 形式的字符串。
// 数组元素写成 key[]=v，嵌套 map 写成 parent[child]=v，键按字典序输出。
func (p Parameters) PercentEncoded() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, queryComponents(PercentEscape(k), p[k])...)
	}
	return strings.Join(parts, "&")
}

func queryComponents(key string, value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{key + "="}
	case Parameters:
		return nestedComponents(key, v)
	case map[string]any:
		return nestedComponents(key, v)
	case []byte:
		return []string{key + "=" + PercentEscape(string(v))}
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, key+"[]="+PercentEscape(fmt.Sprint(rv.Index(i).Interface())))
		}
		return out
	}
	return []string{key + "=" + PercentEscape(fmt.Sprint(value))}
}

func nestedComponents(parent string, m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		out = append(out, queryComponents(parent+"["+PercentEscape(k)+"]", m[k])...)
	}
	return out
}

// PercentEscape 在查询安全字符集的基础上额外转义 :#[]@!$&'()*+,;=，
// 保证值里的 & 和 = 不会被当成分隔符。
func PercentEscape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isQueryAllowed(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isQueryAllowed(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', '/', '?':
		return true
	}
	return false
}
