package harness

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Lookup evaluates a path expression against a JSON value. The syntax is the small subset
// of GPath that API tests commonly use:
//
//	firstName             property of an object
//	type.name             nested property
//	specialties[0].name   array element
//	pets.name             property of every element of an array, giving an array
//	pets.size()           number of elements of an array (or properties of an object)
//
// A property that does not exist gives a null value, not an error. An error means the
// expression could not be applied, for instance indexing into something that is not an array.
func Lookup(value ldvalue.Value, expr string) (ldvalue.Value, error) {
	if expr == "" {
		return value, nil
	}
	current := value
	for _, segment := range strings.Split(expr, ".") {
		if segment == "size()" {
			switch current.Type() {
			case ldvalue.ArrayType, ldvalue.ObjectType:
				current = ldvalue.Int(current.Count())
				continue
			default:
				return ldvalue.Null(), fmt.Errorf("size() applied to a %s value in %q", current.Type(), expr)
			}
		}
		name, indexes, err := parseSegment(segment)
		if err != nil {
			return ldvalue.Null(), fmt.Errorf("invalid path %q: %w", expr, err)
		}
		if name != "" {
			current = property(current, name)
		}
		for _, index := range indexes {
			if current.Type() != ldvalue.ArrayType {
				return ldvalue.Null(), fmt.Errorf("index [%d] applied to a %s value in %q", index, current.Type(), expr)
			}
			if index < 0 || index >= current.Count() {
				current = ldvalue.Null()
				continue
			}
			current = current.GetByIndex(index)
		}
	}
	return current, nil
}

// property gets a named property; applied to an array, it projects over the elements.
func property(value ldvalue.Value, name string) ldvalue.Value {
	switch value.Type() {
	case ldvalue.ObjectType:
		return value.GetByKey(name)
	case ldvalue.ArrayType:
		b := ldvalue.ArrayBuild()
		for i := 0; i < value.Count(); i++ {
			b.Add(property(value.GetByIndex(i), name))
		}
		return b.Build()
	default:
		return ldvalue.Null()
	}
}

func parseSegment(segment string) (string, []int, error) {
	name := segment
	var indexes []int
	if pos := strings.Index(segment, "["); pos >= 0 {
		name = segment[:pos]
		rest := segment[pos:]
		for rest != "" {
			if rest[0] != '[' {
				return "", nil, fmt.Errorf("unexpected %q", rest)
			}
			end := strings.Index(rest, "]")
			if end < 0 {
				return "", nil, fmt.Errorf("unterminated index in %q", segment)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return "", nil, fmt.Errorf("bad index in %q", segment)
			}
			indexes = append(indexes, n)
			rest = rest[end+1:]
		}
	}
	if name == "" && len(indexes) == 0 {
		return "", nil, fmt.Errorf("empty segment")
	}
	return name, indexes, nil
}
