package locate

import (
	"html/template"
	"io"

	"github.com/couchcryptid/crisis-data-etl/internal/domain"
)

// RenderHeatmap writes a self-contained Leaflet page with one heat point per
// resolved place, weighted by mention count.
func RenderHeatmap(w io.Writer, locations []LocationCount) error {
	data := heatmapData{
		Date:   domain.Now().UTC().Format("2006-01-02"),
		Points: make([][3]float64, 0, len(locations)),
	}
	for _, lc := range locations {
		data.Points = append(data.Points, [3]float64{lc.Geo.Lat, lc.Geo.Lon, float64(lc.Count)})
	}
	return heatmapTmpl.Execute(w, data)
}

type heatmapData struct {
	Date   string
	Points [][3]float64
}

var heatmapTmpl = template.Must(template.New("heatmap").Parse(heatmapPage))

const heatmapPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Crisis Heatmap</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
<style>
html, body { margin: 0; padding: 0; height: 100%; }
#map { position: absolute; top: 0; bottom: 0; width: 100%; }
.leaflet-control-scale { background: rgba(255, 255, 255, 0.8); padding: 5px; }
.map-title {
  position: fixed; top: 10px; left: 50%; transform: translateX(-50%);
  background-color: rgba(255, 255, 255, 0.8);
  padding: 10px; z-index: 1000; font-size: 16px; font-weight: bold;
  text-align: center; border-radius: 5px;
}
.legend {
  position: fixed; bottom: 50px; left: 10px; width: 160px; height: auto;
  background-color: rgba(255, 255, 255, 0.8);
  padding: 10px; z-index: 1000; font-size: 12px;
}
.legend .swatch {
  width: 20px; height: 20px; display: inline-block; vertical-align: middle;
}
</style>
</head>
<body>
<div class="map-title">Crisis Heatmap: Mental Health Distress &amp; Substance Use - {{.Date}}</div>
<div class="legend">
<b>Post Intensity</b><br>
<div class="swatch" style="background: red"></div> High<br>
<div class="swatch" style="background: orange"></div> Medium<br>
<div class="swatch" style="background: yellow"></div> Low<br>
</div>
<div id="map"></div>
<script>
var map = L.map("map", {zoomControl: true}).setView([20, 0], 2);
L.control.scale().addTo(map);

var osm = L.tileLayer("https://tile.openstreetmap.org/{z}/{x}/{y}.png", {
  attribution: "&copy; OpenStreetMap contributors"
});
var positron = L.tileLayer("https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png", {
  attribution: "&copy; OpenStreetMap contributors &amp; CARTO"
});
positron.addTo(map);

var points = {{.Points}};
var heat = L.heatLayer(points, {radius: 25, blur: 15}).addTo(map);

L.control.layers({
  "OpenStreetMap": osm,
  "CartoDB Positron": positron
}, {
  "Crisis Heatmap": heat
}, {collapsed: false}).addTo(map);
</script>
</body>
</html>
`
