package strapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Static errors for err113 compliance.
var (
	errQueryJSONNotObject = errors.New("query JSON must be an object")
	errQueryJSONTrailing  = errors.New("unexpected trailing data after query JSON")
)

type undefinedValue struct{}

// Undefined marks a value as absent. Top-level parameters and array elements
// set to Undefined are dropped before serialization, whereas nil is kept and
// serialized as the literal "null".
var Undefined = undefinedValue{}

// Field is one key/value entry of an Object.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Object is an ordered mapping. Serialization follows the slice order, which
// plain Go maps cannot guarantee.
type Object []Field

// Get returns the value stored under key.
func (o Object) Get(key string) (interface{}, bool) {
	for _, field := range o {
		if field.Key == key {
			return field.Value, true
		}
	}

	return nil, false
}

// Set replaces the value under key in place, or appends it.
func (o Object) Set(key string, value interface{}) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value

			return o
		}
	}

	return append(o, Field{Key: key, Value: value})
}

// QueryParams holds the filtering, sorting, pagination, population and field
// selection options of a request, in insertion order.
type QueryParams struct {
	fields Object
}

// NewQueryParams creates an empty parameter set.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// QueryParamsFromObject wraps an ordered object as a parameter set.
func QueryParamsFromObject(object Object) *QueryParams {
	fields := make(Object, len(object))
	copy(fields, object)

	return &QueryParams{fields: fields}
}

// Set stores a raw top-level parameter.
func (p *QueryParams) Set(key string, value interface{}) *QueryParams {
	p.fields = p.fields.Set(key, value)

	return p
}

// Get returns a top-level parameter.
func (p *QueryParams) Get(key string) (interface{}, bool) {
	if p == nil {
		return nil, false
	}

	return p.fields.Get(key)
}

// Fields returns a copy of the top-level parameters in order.
func (p *QueryParams) Fields() Object {
	if p == nil {
		return nil
	}

	fields := make(Object, len(p.fields))
	copy(fields, p.fields)

	return fields
}

// WithFilters sets the filters parameter.
func (p *QueryParams) WithFilters(filters Object) *QueryParams {
	return p.Set("filters", filters)
}

// WithSort sets the sort parameter. A single field is sent as a plain value,
// several fields as an indexed array.
func (p *QueryParams) WithSort(fields ...string) *QueryParams {
	if len(fields) == 1 {
		return p.Set("sort", fields[0])
	}

	return p.Set("sort", fields)
}

// WithPopulate sets the populate parameter ("*", a relation name, a list of
// names, or an Object of nested populate options).
func (p *QueryParams) WithPopulate(populate interface{}) *QueryParams {
	return p.Set("populate", populate)
}

// WithFields sets the field selection.
func (p *QueryParams) WithFields(fields ...string) *QueryParams {
	return p.Set("fields", fields)
}

// WithPagination sets page based pagination.
func (p *QueryParams) WithPagination(page, pageSize int) *QueryParams {
	return p.Set("pagination", Object{F("page", page), F("pageSize", pageSize)})
}

// WithOffsetPagination sets offset based pagination.
func (p *QueryParams) WithOffsetPagination(start, limit int) *QueryParams {
	return p.Set("pagination", Object{F("start", start), F("limit", limit)})
}

// WithLocale sets the locale parameter.
func (p *QueryParams) WithLocale(locale string) *QueryParams {
	return p.Set("locale", locale)
}

// WithStatus selects draft or published documents.
func (p *QueryParams) WithStatus(status string) *QueryParams {
	return p.Set("status", status)
}

// Validate checks the shape of the well-known parameters: filters must be an
// object and sort must be a string or a list of strings.
func (p *QueryParams) Validate() error {
	if p == nil {
		return nil
	}

	if filters, ok := p.fields.Get("filters"); ok && !isUndefined(filters) {
		if filters != nil && !isObjectValue(filters) {
			return fmt.Errorf("%w: \"filters\" must be an object, got %T", ErrInvalidQueryParams, filters)
		}
	}

	if sortValue, ok := p.fields.Get("sort"); ok && !isUndefined(sortValue) {
		err := validateSort(sortValue)
		if err != nil {
			return err
		}
	}

	return nil
}

func validateSort(value interface{}) error {
	if _, ok := value.(string); ok {
		return nil
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("%w: \"sort\" must be a string or an array of strings, got %T", ErrInvalidQueryParams, value)
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if _, ok := elem.(string); !ok {
			return fmt.Errorf("%w: \"sort\" must be a string or an array of strings, element %d is %T",
				ErrInvalidQueryParams, i, elem)
		}
	}

	return nil
}

// QueryPair is one flattened key/value pair, before escaping.
type QueryPair struct {
	Key   string
	Value string
}

// FlattenQueryParams turns params into bracket-notation pairs, e.g.
// filters[$or][0][mime][$contains]=image. Undefined values and array elements
// are skipped; nil is rendered as "null".
func FlattenQueryParams(params *QueryParams) []QueryPair {
	if params == nil {
		return nil
	}

	var pairs []QueryPair

	for _, field := range params.fields {
		pairs = appendQueryPairs(pairs, field.Key, field.Value)
	}

	return pairs
}

// EncodeQueryParams returns the escaped query string without a leading "?".
func EncodeQueryParams(params *QueryParams) string {
	pairs := FlattenQueryParams(params)
	if len(pairs) == 0 {
		return ""
	}

	var builder strings.Builder

	for i, pair := range pairs {
		if i > 0 {
			builder.WriteByte('&')
		}

		builder.WriteString(escapeQueryComponent(pair.Key))
		builder.WriteByte('=')
		builder.WriteString(escapeQueryComponent(pair.Value))
	}

	return builder.String()
}

// formEscaper adjusts url.QueryEscape to the form-urlencoded byte set, which
// keeps "*" and escapes "~".
var formEscaper = strings.NewReplacer("%2A", "*", "~", "%7E")

func escapeQueryComponent(value string) string {
	return formEscaper.Replace(url.QueryEscape(value))
}

// AppendQueryParams appends the encoded params to basePath. basePath is
// returned unchanged when params produce no pairs.
func AppendQueryParams(basePath string, params *QueryParams) string {
	query := EncodeQueryParams(params)
	if query == "" {
		return basePath
	}

	return basePath + "?" + query
}

// ReadablePath returns origin and path of rawURL, dropping query and fragment.
func ReadablePath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
			return rawURL[:i]
		}

		return rawURL
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return parsed.Path
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}

	return parsed.Scheme + "://" + urlOrigin(parsed) + path
}

// urlOrigin returns the lowercase host of parsed, without the default port
// of its scheme.
func urlOrigin(parsed *url.URL) string {
	host := strings.ToLower(parsed.Host)

	switch port := parsed.Port(); {
	case port == "443" && parsed.Scheme == "https", port == "80" && parsed.Scheme == "http":
		return strings.TrimSuffix(host, ":"+port)
	default:
		return host
	}
}

func appendQueryPairs(pairs []QueryPair, key string, value interface{}) []QueryPair {
	if isUndefined(value) {
		return pairs
	}

	switch typed := value.(type) {
	case nil:
		return append(pairs, QueryPair{Key: key, Value: "null"})
	case Object:
		for _, field := range typed {
			pairs = appendQueryPairs(pairs, key+"["+field.Key+"]", field.Value)
		}

		return pairs
	case *QueryParams:
		if typed == nil {
			return append(pairs, QueryPair{Key: key, Value: "null"})
		}

		return appendQueryPairs(pairs, key, typed.fields)
	case string:
		return append(pairs, QueryPair{Key: key, Value: typed})
	case json.Number:
		return append(pairs, QueryPair{Key: key, Value: typed.String()})
	case time.Time:
		return append(pairs, QueryPair{Key: key, Value: typed.UTC().Format("2006-01-02T15:04:05.000Z")})
	case fmt.Stringer:
		return append(pairs, QueryPair{Key: key, Value: typed.String()})
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return append(pairs, QueryPair{Key: key, Value: "null"})
		}

		return appendQueryPairs(pairs, key, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return append(pairs, QueryPair{Key: key, Value: string(reflectBytes(rv))})
		}

		index := 0

		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			if isUndefined(elem) {
				continue
			}

			pairs = appendQueryPairs(pairs, key+"["+strconv.Itoa(index)+"]", elem)
			index++
		}

		return pairs
	case reflect.Map:
		keys := rv.MapKeys()
		names := make([]string, 0, len(keys))
		byName := make(map[string]reflect.Value, len(keys))

		for _, mapKey := range keys {
			name := fmt.Sprint(mapKey.Interface())
			names = append(names, name)
			byName[name] = mapKey
		}

		sort.Strings(names)

		for _, name := range names {
			pairs = appendQueryPairs(pairs, key+"["+name+"]", rv.MapIndex(byName[name]).Interface())
		}

		return pairs
	case reflect.Struct:
		object, err := structToObject(value)
		if err != nil {
			return append(pairs, QueryPair{Key: key, Value: fmt.Sprint(value)})
		}

		return appendQueryPairs(pairs, key, object)
	case reflect.Bool:
		return append(pairs, QueryPair{Key: key, Value: strconv.FormatBool(rv.Bool())})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return append(pairs, QueryPair{Key: key, Value: strconv.FormatInt(rv.Int(), 10)})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return append(pairs, QueryPair{Key: key, Value: strconv.FormatUint(rv.Uint(), 10)})
	case reflect.Float32, reflect.Float64:
		return append(pairs, QueryPair{Key: key, Value: formatNumber(rv.Float())})
	default:
		return append(pairs, QueryPair{Key: key, Value: fmt.Sprint(value)})
	}
}

func reflectBytes(rv reflect.Value) []byte {
	out := make([]byte, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = byte(rv.Index(i).Uint())
	}

	return out
}

// formatNumber renders a float the way a JavaScript number prints.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		formatted := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(formatted, "e")
		sign := exponent[:1]
		digits := strings.TrimLeft(exponent[1:], "0")

		return mantissa + "e" + sign + digits
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isUndefined(value interface{}) bool {
	_, ok := value.(undefinedValue)

	return ok
}

func isObjectValue(value interface{}) bool {
	switch value.(type) {
	case Object, *QueryParams:
		return true
	case time.Time:
		return false
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}

		rv = rv.Elem()
	}

	return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
}

// structToObject converts a struct through its JSON form so that json tags and
// declaration order are honoured.
func structToObject(value interface{}) (Object, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshalling query value: %w", err)
	}

	params, err := ParseQueryParamsJSON(raw)
	if err != nil {
		return nil, err
	}

	return params.fields, nil
}

// ParseQueryParamsJSON decodes a JSON object into QueryParams, preserving the
// key order of the document. Numbers are kept as json.Number.
func ParseQueryParamsJSON(data []byte) (*QueryParams, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := decodeOrderedValue(decoder)
	if err != nil {
		return nil, fmt.Errorf("parsing query JSON: %w", err)
	}

	object, ok := value.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQueryParams, errQueryJSONNotObject)
	}

	_, err = decoder.Token()
	if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQueryParams, errQueryJSONTrailing)
	}

	return &QueryParams{fields: object}, nil
}

func decodeOrderedValue(decoder *json.Decoder) (interface{}, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by ParseQueryParamsJSON
	}

	delim, isDelim := token.(json.Delim)
	if !isDelim {
		return token, nil
	}

	switch delim {
	case '{':
		object := Object{}

		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, err //nolint:wrapcheck // wrapped by ParseQueryParamsJSON
			}

			key, _ := keyToken.(string)

			value, err := decodeOrderedValue(decoder)
			if err != nil {
				return nil, err
			}

			object = object.Set(key, value)
		}

		_, err = decoder.Token()
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped by ParseQueryParamsJSON
		}

		return object, nil
	case '[':
		array := []interface{}{}

		for decoder.More() {
			value, err := decodeOrderedValue(decoder)
			if err != nil {
				return nil, err
			}

			array = append(array, value)
		}

		_, err = decoder.Token()
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped by ParseQueryParamsJSON
		}

		return array, nil
	default:
		return token, nil
	}
}
