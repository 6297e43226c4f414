package entity

import "fmt"

// Method identifies a colour-correction fitting method. The method names are
// part of the wire format and must not change.
type Method string

const (
	MethodCheung2004    Method = "Cheung 2004"
	MethodFinlayson2015 Method = "Finlayson 2015"
	MethodVandermonde   Method = "Vandermonde"
	MethodTPS3D         Method = "TPS-3D"

	// MethodAuto is resolved to a concrete method by the evaluator before use.
	// It is never persisted as the effective method of a finished job.
	MethodAuto Method = "auto"
)

// DefaultMethod is used when a request omits the method and as the fallback
// recommendation when every method fails to fit.
const DefaultMethod = MethodCheung2004

// Methods returns the concrete methods in their canonical order.
func Methods() []Method {
	return []Method{MethodCheung2004, MethodFinlayson2015, MethodVandermonde, MethodTPS3D}
}

// ParseMethod validates a wire value. An empty string maps to DefaultMethod.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return DefaultMethod, nil
	}
	m := Method(s)
	if m == MethodAuto {
		return m, nil
	}
	for _, known := range Methods() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown correction method %q", s)
}

// Concrete reports whether m is directly fittable (i.e. not "auto").
func (m Method) Concrete() bool {
	return m != MethodAuto && m != ""
}
