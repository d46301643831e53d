// Command amf3dump encodes and decodes AMF3 values from the command
// line, for inspecting wire bytes without writing a Go program. The
// amf3 package itself never logs; this driver is the one place in the
// module that does.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/torresjeff/amf3"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <encode|decode> <argument>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "encode":
		err = runEncode(logger, args[1])
	case "decode":
		err = runDecode(logger, args[1])
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Fatal("amf3dump failed", zap.String("command", args[0]), zap.Error(err))
	}
}

// runEncode reads a JSON scalar, array, or object from jsonArg, converts
// it into an amf3.Value with jsonToValue, encodes it, and prints the
// result as hex.
func runEncode(logger *zap.Logger, jsonArg string) error {
	var decoded interface{}
	if err := json.Unmarshal([]byte(jsonArg), &decoded); err != nil {
		return fmt.Errorf("parsing json argument: %w", err)
	}

	v := jsonToValue(decoded)
	b, err := amf3.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	logger.Info("encoded value", zap.Int("bytes", len(b)), zap.String("kind", v.Kind().String()))
	fmt.Println(hex.EncodeToString(b))
	return nil
}

// runDecode reads hexArg as a hex-encoded byte string, decodes a single
// top-level AMF3 value from it, and prints the value plus how many
// bytes were consumed.
func runDecode(logger *zap.Logger, hexArg string) error {
	b, err := hex.DecodeString(hexArg)
	if err != nil {
		return fmt.Errorf("parsing hex argument: %w", err)
	}

	v, consumed, err := amf3.Unmarshal(b)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	logger.Info("decoded value", zap.Int("consumed", consumed), zap.Int("total", len(b)))
	fmt.Println(describeValue(v))
	if consumed != len(b) {
		fmt.Printf("(%d trailing byte(s) ignored)\n", len(b)-consumed)
	}
	return nil
}

// jsonToValue maps the generic shape encoding/json produces onto amf3's
// data model. JSON has no Date or Undefined; json numbers always
// become amf3 doubles, since json.Unmarshal into interface{} never
// reports whether a number was meant as an AMF3 Integer.
func jsonToValue(x interface{}) amf3.Value {
	switch t := x.(type) {
	case nil:
		return amf3.Null()
	case bool:
		return amf3.Bool(t)
	case float64:
		return amf3.Double(t)
	case string:
		return amf3.Str(t)
	case []interface{}:
		items := make([]amf3.Value, len(t))
		for i, item := range t {
			items[i] = jsonToValue(item)
		}
		return amf3.ArrayValue(items...)
	case map[string]interface{}:
		props := make([]amf3.Property, 0, len(t))
		for k, val := range t {
			props = append(props, amf3.Prop(k, jsonToValue(val)))
		}
		return amf3.NewObject("", props...)
	default:
		return amf3.Undefined()
	}
}

// describeValue renders a decoded Value as a human-readable line,
// recursing into arrays and objects.
func describeValue(v amf3.Value) string {
	switch v.Kind() {
	case amf3.KindUndefined:
		return "undefined"
	case amf3.KindNull:
		return "null"
	case amf3.KindBoolean:
		return fmt.Sprintf("%t", v.Bool())
	case amf3.KindInteger:
		return fmt.Sprintf("%d", v.Int())
	case amf3.KindDouble:
		return fmt.Sprintf("%g", v.Float())
	case amf3.KindString:
		return fmt.Sprintf("%q", v.Str())
	case amf3.KindDate:
		return v.Time().UTC().Format("2006-01-02T15:04:05.000Z")
	case amf3.KindArray:
		parts := make([]string, len(v.Items()))
		for i, item := range v.Items() {
			parts[i] = describeValue(item)
		}
		return fmt.Sprintf("%v", parts)
	case amf3.KindObject:
		s := v.ClassName() + "{"
		for i, p := range v.Properties() {
			if i > 0 {
				s += ", "
			}
			s += p.Name + ": " + describeValue(p.Value)
		}
		return s + "}"
	default:
		return "?"
	}
}
