package value

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestAccessors(t *testing.T) {
	if b, err := Bool(true).Bool(); err != nil || !b {
		t.Errorf("Bool(true).Bool() = %v, %v", b, err)
	}
	if n, err := Int(-7).Int(); err != nil || n != -7 {
		t.Errorf("Int(-7).Int() = %v, %v", n, err)
	}
	if n, err := Long(math.MinInt64).Long(); err != nil || n != math.MinInt64 {
		t.Errorf("Long.Long() = %v, %v", n, err)
	}
	if f, err := Double(3.25).Double(); err != nil || f != 3.25 {
		t.Errorf("Double.Double() = %v, %v", f, err)
	}
	if s, err := String("Mr Robot").StringValue(); err != nil || s != "Mr Robot" {
		t.Errorf("String.StringValue() = %q, %v", s, err)
	}
	big1 := new(big.Int).Lsh(big.NewInt(1), 80)
	if b, err := BigInt(big1).BigInt(); err != nil || b.Cmp(big1) != 0 {
		t.Errorf("BigInt.BigInt() = %v, %v", b, err)
	}
	if o, err := Opaque([]int{1}).Opaque(); err != nil || len(o.([]int)) != 1 {
		t.Errorf("Opaque.Opaque() = %v, %v", o, err)
	}
}

func TestKindMismatch(t *testing.T) {
	_, err := String("x").Int()
	if !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("err = %v, want ErrKindMismatch", err)
	}
	var ke *KindError
	if !errors.As(err, &ke) || ke.Want != KindInt || ke.Got != KindString {
		t.Errorf("KindError = %+v", ke)
	}
	// Int 与 Long 是不同的 kind
	if _, err := Int(1).Long(); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Int(1).Long() err = %v, want mismatch", err)
	}
	if _, err := Null().Bool(); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Null().Bool() err = %v, want mismatch", err)
	}
}

func TestNilConstructors(t *testing.T) {
	if !BigInt(nil).IsNull() {
		t.Error("BigInt(nil) should be null")
	}
	if !Opaque(nil).IsNull() {
		t.Error("Opaque(nil) should be null")
	}
	var zero Value
	if zero.Kind() != KindNull {
		t.Errorf("zero Kind = %v, want null", zero.Kind())
	}
}

func TestBigIntIsCopied(t *testing.T) {
	b := big.NewInt(10)
	v := BigInt(b)
	b.SetInt64(11)
	got, _ := v.BigInt()
	if got.Int64() != 10 {
		t.Errorf("BigInt = %v, want 10", got)
	}
	got.SetInt64(12)
	again, _ := v.BigInt()
	if again.Int64() != 10 {
		t.Errorf("BigInt after mutation of accessor result = %v, want 10", again)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(42), "42"},
		{Long(-9000000000), "-9000000000"},
		{Double(1), "1.0"},
		{Double(3.5), "3.5"},
		{Double(1e21), "1e+21"},
		{Double(math.NaN()), "NaN"},
		{String("Joleene"), `"Joleene"`},
		{String("a\"b\n"), `"a\"b\n"`},
		{BigInt(new(big.Int).Lsh(big.NewInt(1), 70)), "1180591620717411303424"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%v.String() = %s, want %s", tt.v.Kind(), got, tt.want)
		}
	}
}

func TestEqualAndHash(t *testing.T) {
	pairs := []struct {
		a, b  Value
		equal bool
	}{
		{String("x"), String("x"), true},
		{String("x"), String("y"), false},
		{Int(1), Long(1), false},
		{Int(1), Int(1), true},
		{Double(math.NaN()), Double(math.NaN()), true},
		{Double(0), Double(math.Copysign(0, -1)), false},
		{BigInt(big.NewInt(5)), BigInt(big.NewInt(5)), true},
		{Opaque(map[string]int{"a": 1}), Opaque(map[string]int{"a": 1}), true},
		{Null(), Null(), true},
		{Null(), Bool(false), false},
	}
	for i, p := range pairs {
		if got := p.a.Equal(p.b); got != p.equal {
			t.Errorf("#%d Equal = %v, want %v", i, got, p.equal)
		}
		if p.equal && p.a.Hash() != p.b.Hash() {
			t.Errorf("#%d equal values hash differently", i)
		}
	}
}

func TestAsGeneric(t *testing.T) {
	if Null().AsGeneric() != nil {
		t.Error("null should box to nil")
	}
	if got := Int(3).AsGeneric(); got != int32(3) {
		t.Errorf("Int AsGeneric = %#v", got)
	}
	if got := Long(3).AsGeneric(); got != int64(3) {
		t.Errorf("Long AsGeneric = %#v", got)
	}
	if got := Double(0.5).AsGeneric(); got != 0.5 {
		t.Errorf("Double AsGeneric = %#v", got)
	}
	if got := String("s").AsGeneric(); got != "s" {
		t.Errorf("String AsGeneric = %#v", got)
	}
}

func TestOf(t *testing.T) {
	if Of(7).Kind() != KindInt {
		t.Errorf("Of(7) kind = %v", Of(7).Kind())
	}
	if Of(int64(7)).Kind() != KindLong {
		t.Errorf("Of(int64) kind = %v", Of(int64(7)).Kind())
	}
	if Of(struct{}{}).Kind() != KindOpaque {
		t.Errorf("Of(struct) kind = %v", Of(struct{}{}).Kind())
	}
	if !Of(String("x")).Equal(String("x")) {
		t.Error("Of(Value) should pass through")
	}
}
