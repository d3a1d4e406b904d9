package polity

import "testing"

func TestWeightFromString(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "10", "10"},
		{"fraction", "0.25", "0.25"},
		{"negative", "-3.5", "-3.5"},
		{"zero", "0", "0"},
		{"trailing zeros trimmed", "1.500000000", "1.5"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, err := WeightFromString(c.input)
			if err != nil {
				t.Fatalf("WeightFromString(%q) returned error: %v", c.input, err)
			}
			if got := w.String(); got != c.want {
				t.Errorf("WeightFromString(%q).String() = %q, want %q", c.input, got, c.want)
			}
		})
	}
}

func TestWeightFromStringInvalid(t *testing.T) {
	if _, err := WeightFromString("not-a-number"); err == nil {
		t.Error("expected an error for an unparseable weight literal")
	}
}

func TestWeightArithmetic(t *testing.T) {
	ten := WeightFromInt64(10)
	three := WeightFromInt64(3)

	if got := ten.Add(three).String(); got != "13" {
		t.Errorf("10 + 3 = %s, want 13", got)
	}
	if got := ten.Sub(three).String(); got != "7" {
		t.Errorf("10 - 3 = %s, want 7", got)
	}
	if got := three.Sub(ten).String(); got != "-7" {
		t.Errorf("3 - 10 = %s, want -7", got)
	}
	if !ten.GreaterThan(three) {
		t.Error("10 should be greater than 3")
	}
	if !three.LessThan(ten) {
		t.Error("3 should be less than 10")
	}
	if !ten.Equal(WeightFromInt64(10)) {
		t.Error("10 should equal 10")
	}
}

func TestWeightMul(t *testing.T) {
	half, err := WeightFromString("0.5")
	if err != nil {
		t.Fatalf("WeightFromString(0.5): %v", err)
	}
	if got := half.Mul(WeightFromInt64(10)).String(); got != "5" {
		t.Errorf("0.5 * 10 = %s, want 5", got)
	}
	if got := WeightFromInt64(-1).Mul(WeightFromInt64(7)).String(); got != "-7" {
		t.Errorf("-1 * 7 = %s, want -7", got)
	}
	if got := ZeroWeight().Mul(WeightFromInt64(100)).String(); got != "0" {
		t.Errorf("0 * 100 = %s, want 0", got)
	}
}

func TestWeightSign(t *testing.T) {
	if ZeroWeight().Sign() != 0 {
		t.Error("zero weight should have sign 0")
	}
	if WeightFromInt64(1).Sign() != 1 {
		t.Error("positive weight should have sign 1")
	}
	if WeightFromInt64(-1).Sign() != -1 {
		t.Error("negative weight should have sign -1")
	}
}

func TestMaxWeight(t *testing.T) {
	neg := WeightFromInt64(-5)
	zero := ZeroWeight()
	if got := MaxWeight(neg, zero).String(); got != "0" {
		t.Errorf("MaxWeight(-5, 0) = %s, want 0", got)
	}
	pos := WeightFromInt64(5)
	if got := MaxWeight(pos, zero).String(); got != "5" {
		t.Errorf("MaxWeight(5, 0) = %s, want 5", got)
	}
}

func TestWeightSqrt(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"4", "2"},
		{"9", "3"},
		{"0", "0"},
		{"2", "1.414213562"},
	}
	for _, c := range cases {
		w, err := WeightFromString(c.input)
		if err != nil {
			t.Fatalf("WeightFromString(%q): %v", c.input, err)
		}
		if got := w.Sqrt().String(); got != c.want {
			t.Errorf("Sqrt(%s) = %s, want %s", c.input, got, c.want)
		}
	}
}

func TestQuadraticVote(t *testing.T) {
	if got := QuadraticVote(WeightFromInt64(9)).String(); got != "3" {
		t.Errorf("QuadraticVote(9) = %s, want 3", got)
	}
	if got := QuadraticVote(WeightFromInt64(-9)).String(); got != "-3" {
		t.Errorf("QuadraticVote(-9) = %s, want -3", got)
	}
	if got := QuadraticVote(ZeroWeight()).String(); got != "0" {
		t.Errorf("QuadraticVote(0) = %s, want 0", got)
	}
}
