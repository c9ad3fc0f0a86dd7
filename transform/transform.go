// Package transform contains transformation utilities that work on sequences
// represented by iterator functions.
//
// They implement patterns commonly used with iterators returned by the
// catalog's ByTable and All methods. However, this library isn't tied to the
// catalog.
package transform

import (
	"reflect"
)

// Iterator is an iterator over a sequence. Every call fills in another object
// into ptr argument. Returns false when the end of dataset is reached (the data
// at ptr won't be modified in this call).
//
// Iterator must accept nil instead of a pointer. When the argument is nil, the
// iterator must discard one item. The calling code can use this to skip
// sequence items.
type Iterator = func(ptr any) bool

// FromSlice returns an iterator over a slice
func FromSlice(slice any) Iterator {
	rSlice := reflect.ValueOf(slice)
	if rSlice.Kind() != reflect.Slice {
		panic("argument must be a slice")
	}
	i := 0
	return func(ptr any) bool {
		if i >= rSlice.Len() {
			return false
		}
		if ptr != nil {
			reflect.ValueOf(ptr).Elem().Set(rSlice.Index(i))
		}
		i++
		return true
	}
}

// IsEmpty returns true if the sequence is empty
func IsEmpty(iter Iterator) bool {
	return !iter(nil)
}

// Count returns the length of a sequence
func Count(iter Iterator) int {
	i := 0
	for iter(nil) {
		i++
	}
	return i
}

// Collect appends all items from the sequence to a slice to which ptrSlice
// points. Returns the number of items collected.
func Collect(iter Iterator, ptrSlice any) int {
	rPtrSlice := reflect.ValueOf(ptrSlice)
	if rPtrSlice.Kind() != reflect.Ptr {
		panic("ptrSlice must be a pointer")
	}
	rSlice := rPtrSlice.Elem()
	if rSlice.Kind() != reflect.Slice {
		panic("ptrSlice must point to a slice")
	}
	tItem := rSlice.Type().Elem()
	i := 0
	rPtrItem := reflect.New(tItem)
	for {
		if !iter(rPtrItem.Interface()) {
			return i
		}
		i++
		rSlice.Set(reflect.Append(rSlice, rPtrItem.Elem()))
	}
}

// Map returns a new sequence made by applying the given function to each item.
// The function must accept an item by value and return an item. The output item
// may be of a different type. The mapping function can optionally accept a
// second argument of type int. It will receive the 0-based index of the current
// item within the sequence.
func Map(iter Iterator, mapping any) Iterator {
	rMapping := reflect.ValueOf(mapping)
	if rMapping.Kind() != reflect.Func {
		panic("mapping must be a function")
	}
	tMapping := rMapping.Type()
	if tMapping.NumIn() < 1 || tMapping.NumIn() > 2 {
		panic("mapping must accept one or two arguments")
	}
	tItem := tMapping.In(0)
	if tMapping.NumIn() == 2 && tMapping.In(1).Kind() != reflect.Int {
		panic("the second argument of mapping must be int")
	}
	if tMapping.NumOut() != 1 {
		panic("mapping must return one value")
	}
	i := 0
	rPtrItem := reflect.New(tItem)
	arg := make([]reflect.Value, tMapping.NumIn(), tMapping.NumIn())
	return func(ptr any) bool {
		if !iter(rPtrItem.Interface()) {
			return false
		}
		arg[0] = rPtrItem.Elem()
		if len(arg) == 2 {
			arg[1] = reflect.ValueOf(i)
		}
		res := rMapping.Call(arg)
		if ptr != nil {
			reflect.ValueOf(ptr).Elem().Set(res[0])
		}
		i++
		return true
	}
}
