package world

import (
	"math"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/fixed"
	"github.com/taigrr/sector/pkg/math3d"
)

// EyeHeight is the viewer's eye height above the floor.
const EyeHeight = 41

// Start is a spawn point.
type Start struct {
	Pos    math3d.Vec3
	Yaw    float64
	Sector int
}

func v(x, y float64) math3d.Vec2 { return math3d.V2(x, y) }

// Demo builds the built-in demonstration map: a hall with a stepped corridor
// to a room with a slime pool, a grated window into a raised garden and a
// dark alcove. It exercises solid walls, upper and lower walls, a masked
// translucent portal, every sprite style, dynamic lights and particles.
func Demo() (*Map, Start) {
	b := NewBuilder()

	hall := b.Sector(Sector{FloorZ: 0, CeilZ: 192, FloorTex: "FLOOR", CeilTex: "CEIL", Light: 200}, "BRICK",
		v(-256, 256), v(-64, 256), v(64, 256), v(256, 256),
		v(256, 64), v(256, -64), v(256, -256),
		v(-256, -256), v(-256, -96), v(-256, 96))
	b.Sector(Sector{FloorZ: 16, CeilZ: 128, FloorTex: "TILE", CeilTex: "CEIL", Light: 160}, "METAL",
		v(256, 64), v(512, 64), v(512, -64), v(256, -64))
	pool := b.Sector(Sector{FloorZ: -32, CeilZ: 224, FloorTex: "NUKAGE", CeilTex: "CEIL", Light: 140}, "STONE",
		v(512, 192), v(768, 192), v(768, -192), v(512, -192), v(512, -64), v(512, 64))
	garden := b.Sector(Sector{FloorZ: 32, CeilZ: 160, FloorTex: "GRASS", CeilTex: "CEIL", Light: 230}, "DOOR",
		v(-128, 448), v(128, 448), v(128, 256), v(64, 256), v(-64, 256), v(-128, 256))
	b.Sector(Sector{FloorZ: 0, CeilZ: 96, FloorTex: "FLOOR", CeilTex: "CEIL", Light: 96}, "STONE",
		v(-384, 96), v(-256, 96), v(-256, -96), v(-384, -96))
	b.Link()

	// Grated window between the hall and the garden, seen from both sides.
	for _, w := range []*Wall{b.Wall(hall, v(-64, 256), v(64, 256)), b.Wall(garden, v(64, 256), v(-64, 256))} {
		w.Mid = "GRATE"
		w.Translucent = true
		w.Alpha = fixed.FromFloat(0.75)
	}

	for _, p := range []math3d.Vec2{v(-160, 160), v(160, 160), v(160, -160), v(-160, -160)} {
		b.Thing(Thing{Pos: math3d.V3(p.X, p.Y, 0), Sector: NoSector, Sprite: "PILLAR"})
	}
	b.Thing(Thing{Pos: math3d.V3(400, 32, 16), Sector: NoSector, Sprite: "BARREL"})
	b.Thing(Thing{Pos: math3d.V3(400, -32, 16), Sector: NoSector, Sprite: "BARREL",
		Translation: blend.RampTranslation(blend.RampGreen, blend.RampRed)})
	b.Thing(Thing{Pos: math3d.V3(700, 0, -32), Sector: NoSector, Sprite: "LAMP", FullBright: true})
	b.Thing(Thing{Pos: math3d.V3(0, -120, 0), Sector: NoSector, Sprite: "GHOST", Style: StyleFuzzy})
	b.Thing(Thing{Pos: math3d.V3(80, 40, 0), Sector: NoSector, Sprite: "GHOST", Style: StyleTranslucent, Alpha: fixed.FromFloat(0.4)})
	b.Thing(Thing{Pos: math3d.V3(-80, 40, 0), Sector: NoSector, Sprite: "GHOST", Style: StyleShaded, Fill: blend.RGB(40, 0, 60)})
	b.Thing(Thing{Pos: math3d.V3(0, 360, 32), Sector: NoSector, Sprite: "BARREL", Style: StyleAdditive, Alpha: fixed.FromFloat(0.6)})
	b.Thing(Thing{Pos: math3d.V3(-330, 40, 0), Sector: NoSector, Sprite: "GHOST", Style: StyleSubtractive, Alpha: fixed.FromFloat(0.5)})
	b.Thing(Thing{Pos: math3d.V3(-330, -40, 0), Sector: NoSector, Sprite: "GHOST", Style: StyleReverseSubtractive, Alpha: fixed.FromFloat(0.5)})

	b.Light(Light{Pos: math3d.V3(700, 0, 40), Radius: 360, Color: blend.RGB(255, 160, 64)})
	b.Light(Light{Pos: math3d.V3(0, -200, 120), Radius: 320, Color: blend.RGB(64, 96, 255)})
	b.Light(Light{Pos: math3d.V3(640, 0, -32), Radius: 260, Color: blend.RGB(0, 96, 0), Ambient: true})

	for i := range 12 {
		a := float64(i) * math.Pi / 6
		b.Particle(Particle{
			Pos:      math3d.V3(640+math.Cos(a)*72, math.Sin(a)*72, -16+float64(i%4)*10),
			Sector:   pool,
			Size:     3,
			Color:    blend.RGB(120, 255, 80),
			Alpha:    fixed.FromFloat(0.8),
			Additive: true,
		})
	}

	m, err := b.Map()
	if err != nil {
		panic(err)
	}
	return m, Start{Pos: math3d.V3(-180, 0, EyeHeight), Yaw: 0, Sector: hall}
}
