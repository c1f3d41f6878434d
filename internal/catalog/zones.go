package catalog

// Point координата в градусах.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Zone именованная зона доставки.
type Zone struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Coordinates []Point `json:"coordinates"`
}

// DefaultCenter центр карты по умолчанию (Тегусигальпа).
var DefaultCenter = Point{Lat: 14.0818, Lon: -87.2068}

var zones = []Zone{
	{Name: "Zona 1", Color: "#00FF00", Coordinates: []Point{{14.1300, -87.2800}, {14.1300, -87.1300}, {14.0950, -87.1300}, {14.0950, -87.2800}}},
	{Name: "Zona 2", Color: "#FF0000", Coordinates: []Point{{14.0950, -87.2200}, {14.0950, -87.1850}, {14.0600, -87.1850}, {14.0600, -87.2200}}},
	{Name: "Zona 3", Color: "#FFFF00", Coordinates: []Point{{14.0950, -87.1850}, {14.0950, -87.1300}, {14.0600, -87.1300}, {14.0600, -87.1850}}},
	{Name: "Zona 4", Color: "#FF00FF", Coordinates: []Point{{14.0950, -87.2800}, {14.0950, -87.2200}, {14.0600, -87.2200}, {14.0600, -87.2800}}},
	{Name: "Zona 5", Color: "#0000FF", Coordinates: []Point{{14.0600, -87.2800}, {14.0600, -87.1300}, {14.0300, -87.1300}, {14.0300, -87.2800}}},
	{Name: "Zona 6", Color: "#FFA500", Coordinates: []Point{{14.2000, -87.9000}, {14.2000, -87.1500}, {14.1700, -87.1500}, {14.1700, -87.9000}}},
	{Name: "Zona 7", Color: "#800080", Coordinates: []Point{{14.1000, -87.3000}, {14.1000, -87.2500}, {14.0700, -87.2500}, {14.0700, -87.3000}}},
}

// Zones возвращает зоны доставки.
func Zones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

// ZoneFor возвращает первую зону, в которую попадает точка.
// Зоны пересекаются (Зона 7 лежит внутри Зон 1 и 4), поэтому порядок важен.
func ZoneFor(p Point) (Zone, bool) {
	for _, z := range zones {
		if z.contains(p) {
			return z, true
		}
	}
	return Zone{}, false
}

// contains проверка попадания точки в многоугольник методом трассировки луча.
func (z Zone) contains(p Point) bool {
	inside := false
	n := len(z.Coordinates)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := z.Coordinates[i], z.Coordinates[j]
		if (a.Lon > p.Lon) != (b.Lon > p.Lon) &&
			p.Lat < (b.Lat-a.Lat)*(p.Lon-a.Lon)/(b.Lon-a.Lon)+a.Lat {
			inside = !inside
		}
	}
	return inside
}
