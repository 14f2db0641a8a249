// Copyright 2026 The openvecu Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package someip

import (
	"fmt"
	"reflect"
	"sync"
)

// Serializer is the unified interface over the closed set of wire-format
// categories (primitive, enum, struct, array, vector, map, string, variant,
// optional). One serializer instance is built per (Go type, member config)
// pair and reused; instances are immutable and safe for concurrent use.
//
// WriteData and RequiredSize mirror each other's recursion exactly: for every
// supported value, len(WriteData output) == RequiredSize. The size result is
// relied upon for buffer pre-allocation, so any divergence between the two is
// a correctness bug, not a recoverable condition.
type Serializer interface {
	// WriteData writes the value's wire representation. Model/configuration
	// mismatches (length-field overflow, unmatched variant selector) abort
	// with a ContractViolation panic.
	WriteData(ctx *WriteContext, value reflect.Value) error

	// ReadData decodes into value, which must be addressable.
	ReadData(ctx *ReadContext, value reflect.Value) error

	// RequiredSize returns the exact serialized size of this specific value.
	RequiredSize(value reflect.Value) int

	// MaximumSize returns the worst-case size across all values of the type,
	// or Infinite when no finite bound exists.
	MaximumSize() InfSize

	// StaticSize reports whether every value of the type serializes to the
	// same number of bytes, and that size if so.
	StaticSize() (size int, static bool)

	// WireType returns the TLV wire-type code for this category.
	WireType() WireType
}

// lengthDelimited is implemented by serializers whose wire form is a length
// field followed by a payload. The TLV layer writes the payload under its own
// tag-scoped length field, so these expose the payload without the type's
// top-level length field.
type lengthDelimited interface {
	Serializer

	// WritePayload writes the payload only, without the leading length field.
	WritePayload(ctx *WriteContext, value reflect.Value) error

	// ReadPayload decodes a payload from ctx, whose reader spans exactly the
	// payload region.
	ReadPayload(ctx *ReadContext, value reflect.Value) error

	// RequiredPayloadSize is RequiredSize minus the leading length field.
	RequiredPayloadSize(value reflect.Value) int

	// PayloadLengthField is the configured width of the type's own length
	// field (possibly zero for fixed arrays and structs).
	PayloadLengthField() LengthFieldSize
}

// ============================================================================
// Resolver - builds and caches serializers per (type, member config)
// ============================================================================

type serializerKey struct {
	type_ reflect.Type
	conf  FieldConfig
}

// resolver maps (type, config) pairs to serializers. Construction recurses
// through container element types; results are cached behind an RWMutex so
// hot paths take only a read lock.
type resolver struct {
	pack TpPack

	mu    sync.RWMutex
	cache map[serializerKey]Serializer

	tlvMu    sync.RWMutex
	tlvCache map[reflect.Type]*tlvStructInfo
}

func newResolver(pack TpPack) *resolver {
	return &resolver{
		pack:     pack,
		cache:    make(map[serializerKey]Serializer),
		tlvCache: make(map[reflect.Type]*tlvStructInfo),
	}
}

// serializerFor returns the serializer for type t under member config conf.
func (r *resolver) serializerFor(t reflect.Type, conf FieldConfig) (Serializer, error) {
	key := serializerKey{type_: t, conf: conf}

	r.mu.RLock()
	s, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := r.build(t, conf)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		s = cached
	} else {
		r.cache[key] = s
	}
	r.mu.Unlock()
	return s, nil
}

// build constructs a serializer for t. Dispatch follows the closed category
// set in order of specialization: the special struct shapes (optional,
// variant, ApApplicationError) are recognized before the generic struct path.
func (r *resolver) build(t reflect.Type, conf FieldConfig) (Serializer, error) {
	order := conf.byteOrder(r.pack)

	switch t.Kind() {
	case reflect.Bool:
		return boolSerializer{}, nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return numericSerializer{width: int(t.Size()), order: order}, nil

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numericSerializer{width: int(t.Size()), order: order, signed: true}, nil

	case reflect.Float32, reflect.Float64:
		return numericSerializer{width: int(t.Size()), order: order, float: true}, nil

	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return nil, fmt.Errorf("someip: %v has platform-dependent width, use a sized integer type", t)

	case reflect.String:
		return newStringSerializer(r.pack, conf), nil

	case reflect.Slice:
		return r.newVectorSerializer(t, conf)

	case reflect.Array:
		return r.newArraySerializer(t, conf)

	case reflect.Map:
		return r.newMapSerializer(t, conf)

	case reflect.Struct:
		if info, ok := getOptionalInfo(t); ok {
			return r.newOptionalSerializer(t, info, conf)
		}
		if info, ok := getVariantInfo(t); ok {
			return r.newVariantSerializer(t, info, conf)
		}
		if t == apApplicationErrorType {
			return newAppErrorSerializer(r.pack), nil
		}
		return r.newStructSerializer(t, conf)

	default:
		return nil, fmt.Errorf("someip: unsupported type %v (%v)", t, t.Kind())
	}
}
