package generator

import "math"

// seedToPtrInt32 はシードを genai の *int32 に載せ替えます。
// int32 に収まらない値は送らず、モデル側の乱数に任せます。
func seedToPtrInt32(s *int64) *int32 {
	if s == nil || *s < math.MinInt32 || *s > math.MaxInt32 {
		return nil
	}
	v := int32(*s)
	return &v
}

// dereferenceSeed は記録用のシード値です。未指定なら 0 です。
func dereferenceSeed(s *int64) int64 {
	if s == nil {
		return 0
	}
	return *s
}
