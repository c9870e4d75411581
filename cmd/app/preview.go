package main

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/golang/geo/r3"

	"github.com/0x0FACED/go-hull/pkg/anchor"
	"github.com/0x0FACED/go-hull/pkg/quickhull"
)

func preparePreview(scatter *charts.Scatter3D) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "580px",
			Width:  "1020px",
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Выпуклая оболочка (QuickHull)",
			Left:  "10%",
			TitleStyle: &opts.TextStyle{
				Color: "white",
			},
		}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z"}),
		charts.WithGrid3DOpts(opts.Grid3D{
			BoxWidth:  100,
			BoxHeight: 100,
			BoxDepth:  100,
		}),
	)
}

func value3D(p r3.Vector) []interface{} {
	return []interface{}{p.X, p.Y, p.Z}
}

// hullToEcharts рисует опорные точки (цвет по id точки) и рёбра оболочки.
// hull может быть nil, тогда рисуются только точки.
func hullToEcharts(markers []anchor.Marker, hull *quickhull.Hull) *charts.Scatter3D {
	scatter := charts.NewScatter3D()
	preparePreview(scatter)

	points := make([]opts.Chart3DData, 0, len(markers))
	for _, m := range markers {
		points = append(points, opts.Chart3DData{
			Name:      m.ID,
			Value:     value3D(m.Position),
			ItemStyle: &opts.ItemStyle{Color: anchor.Color(m.ID)},
		})
	}
	scatter.AddSeries("Точки", points)

	if hull == nil {
		return scatter
	}

	// каждое ребро отдельной серией, иначе line3D соединит соседние рёбра
	for _, edge := range hullEdges(hull) {
		line := charts.NewLine3D()
		line.AddSeries("Рёбра", []opts.Chart3DData{
			{Value: value3D(edge[0])},
			{Value: value3D(edge[1])},
		}, charts.WithLineStyleOpts(opts.LineStyle{
			Color: "lightgreen",
			Width: 2,
		}))
		scatter.MultiSeries = append(scatter.MultiSeries, line.MultiSeries...)
	}

	return scatter
}

// hullEdges возвращает каждое ребро оболочки один раз.
func hullEdges(hull *quickhull.Hull) [][2]r3.Vector {
	type key struct{ a, b r3.Vector }
	seen := make(map[key]bool)

	var edges [][2]r3.Vector
	for _, tri := range hull.Mesh().Triangles {
		for i := 0; i < 3; i++ {
			a, b := tri.Vertices[i], tri.Vertices[(i+1)%3]
			// у соседней грани это же ребро идёт в обратную сторону
			if seen[key{b, a}] {
				continue
			}
			seen[key{a, b}] = true
			edges = append(edges, [2]r3.Vector{a, b})
		}
	}
	return edges
}
