package main

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

const maxFieldAcres = 1 << 24

// LoadFieldModel reads a field description:
//
//	{
//	  "noise": 0.1,
//	  "seasons": [0.9, 1.2, 1.0, 0.6],
//	  "seeds": [{"name": "dent-corn", "yield": 180, "price": 4.2}, ...],
//	  "acres": {"count": 10000, "default": 1.0, "soil": [0.8, 1.3, ...]}
//	}
//
// Acres past the end of "soil" get "default" (1 when absent).
func LoadFieldModel(path string) (*FieldModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field model: %w", err)
	}
	return parseFieldModel(string(data))
}

func parseFieldModel(fieldJSON string) (*FieldModel, error) {
	if !gjson.Valid(fieldJSON) {
		return nil, fmt.Errorf("parse field model: invalid JSON")
	}
	root := gjson.Parse(fieldJSON)

	fm := &FieldModel{Noise: root.Get("noise").Float()}
	if fm.Noise < 0 || fm.Noise >= 1 {
		return nil, fmt.Errorf("parse field model: noise %v outside [0, 1)", fm.Noise)
	}

	var perr error
	root.Get("seeds").ForEach(func(_, v gjson.Result) bool {
		p := SeedProfile{
			Name:      v.Get("name").String(),
			BaseYield: v.Get("yield").Float(),
			Price:     v.Get("price").Float(),
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("seed-%02d", len(fm.Seeds))
		}
		if p.BaseYield < 0 || p.Price < 0 {
			perr = fmt.Errorf("parse field model: seed %s has negative yield or price", p.Name)
			return false
		}
		fm.Seeds = append(fm.Seeds, p)
		return true
	})
	if perr != nil {
		return nil, perr
	}

	fm.SeasonFactor = readFloatSlice(root.Get("seasons"))

	acres := root.Get("acres")
	fm.Soil = readFloatSlice(acres.Get("soil"))
	def := 1.0
	if d := acres.Get("default"); d.Exists() {
		def = d.Float()
	}
	n := acres.Get("count").Int()
	if n > maxFieldAcres {
		return nil, fmt.Errorf("parse field model: %d acres exceeds limit %d", n, maxFieldAcres)
	}
	for len(fm.Soil) < int(n) {
		fm.Soil = append(fm.Soil, def)
	}

	if len(fm.Seeds) == 0 {
		return nil, fmt.Errorf("parse field model: no seeds")
	}
	if len(fm.Soil) == 0 {
		return nil, fmt.Errorf("parse field model: no acres")
	}
	return fm, nil
}

func readFloatSlice(v gjson.Result) []float64 {
	if !v.Exists() || !v.IsArray() {
		return nil
	}
	arr := v.Array()
	out := make([]float64, len(arr))
	for i, item := range arr {
		out[i] = item.Float()
	}
	return out
}
