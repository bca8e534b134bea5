package config

import "github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/room"

func ptr[T any](v T) *T { return &v }

// ToFile converts a Site back into the canonical file shape. Openings keep
// their resolved centers; positions along a wall are written as x_position
// or y_position to match the wall axis.
func (s *Site) ToFile() File {
	f := File{
		CoordinateSystem:       s.CoordinateSystem,
		Units:                  s.Units,
		Walls:                  make([]WallFile, 0, len(s.Walls)),
		Windows:                make([]WindowFile, 0, len(s.Openings)),
		ReferenceWallNormalDeg: ptr(s.ReferenceWallNormalDeg),
		SunAlgorithm:           string(s.SunAlgorithm),
		Plant: PlantFile{
			CenterX: ptr(s.Target.CenterX),
			CenterY: ptr(s.Target.CenterY),
			Radius:  s.Target.Radius,
			ZMin:    s.Target.ZMin,
			ZMax:    s.Target.ZMax,
		},
		Simulation: &SimulationFile{
			SamplePointsAngular:  ptr(s.Sampling.Angular),
			SamplePointsVertical: ptr(s.Sampling.Vertical),
		},
	}
	if s.Corner.X != 0 || s.Corner.Y != 0 {
		f.Corner = &CornerFile{X: s.Corner.X, Y: s.Corner.Y}
	}

	for _, w := range s.Walls {
		wf := WallFile{
			ID:                      w.ID,
			OutwardNormalAzimuthDeg: ptr(w.OutwardNormalAzimuthDeg),
			Axis:                    w.Axis.String(),
			Visualization:           &VisualizationFile{WallLength: ptr(w.DrawLength)},
		}
		if w.Thickness != 0 {
			wf.Thickness = ptr(w.Thickness)
		}
		f.Walls = append(f.Walls, wf)
	}

	for _, o := range s.Openings {
		wf := WindowFile{
			ID:                   o.ID,
			WallID:               o.WallID,
			Center:               []float64{o.Center.X, o.Center.Y, o.Center.Z},
			Width:                ptr(o.Width),
			Height:               ptr(o.Height),
			WallNormalAzimuthDeg: ptr(o.NormalAzimuthDeg),
			WallThickness:        ptr(o.WallThickness),
			Axis:                 o.Axis.String(),
		}
		if o.PositionAlongWall != nil {
			switch o.Axis {
			case room.AxisX:
				wf.XPosition = ptr(*o.PositionAlongWall)
			case room.AxisY:
				wf.YPosition = ptr(*o.PositionAlongWall)
			default:
				wf.PositionAlongWall = ptr(*o.PositionAlongWall)
			}
		}
		f.Windows = append(f.Windows, wf)
	}

	if s.Location != nil {
		f.Location = &LocationFile{
			Latitude:       s.Location.Latitude,
			Longitude:      s.Location.Longitude,
			TimezoneOffset: ptr(s.Location.TimezoneOffsetHours),
			TimezoneName:   s.Location.TimezoneName,
		}
	}
	return f
}
