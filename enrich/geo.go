package enrich

import (
	"math"
	"strings"

	"github.com/rushteam/slatekit/core"
)

const earthRadiusKm = 6371.0

// HaversineKm 计算两点间的球面距离（公里）。
func HaversineKm(a, b core.GeoPoint) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// CosineSimilarity 计算两个向量的余弦相似度，维度不符或零向量返回 0。
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// cityCenters 是内置的城市中心坐标表；未覆盖的城市解析失败，
// 下游把距离当缺失处理（中性分），不默认为 0。
var cityCenters = map[string]core.GeoPoint{
	"new york":      {Lat: 40.7128, Lon: -74.0060},
	"san francisco": {Lat: 37.7749, Lon: -122.4194},
	"london":        {Lat: 51.5074, Lon: -0.1278},
	"berlin":        {Lat: 52.5200, Lon: 13.4050},
	"tokyo":         {Lat: 35.6762, Lon: 139.6503},
	"shanghai":      {Lat: 31.2304, Lon: 121.4737},
	"beijing":       {Lat: 39.9042, Lon: 116.4074},
}

// ResolveCityCenter 解析城市中心坐标（大小写不敏感）。
func ResolveCityCenter(city string) (core.GeoPoint, bool) {
	p, ok := cityCenters[strings.ToLower(strings.TrimSpace(city))]
	return p, ok
}
