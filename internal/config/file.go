package config

// File is the on-disk site configuration. Many fields are optional and
// exist only for compatibility with older layouts; Build resolves them into
// a Site.
type File struct {
	CoordinateSystem string          `json:"coordinate_system,omitempty" yaml:"coordinate_system,omitempty"`
	Units            string          `json:"units,omitempty" yaml:"units,omitempty"`
	Corner           *CornerFile     `json:"corner,omitempty" yaml:"corner,omitempty"`
	Walls            []WallFile      `json:"walls" yaml:"walls"`
	Windows          []WindowFile    `json:"windows" yaml:"windows"`
	Plant            PlantFile       `json:"plant" yaml:"plant"`
	Simulation       *SimulationFile `json:"simulation,omitempty" yaml:"simulation,omitempty"`
	Location         *LocationFile   `json:"location,omitempty" yaml:"location,omitempty"`
	// Visualization.WallLength is the legacy global wall draw length.
	Visualization *VisualizationFile `json:"visualization,omitempty" yaml:"visualization,omitempty"`

	ReferenceWallNormalDeg *float64 `json:"reference_wall_normal_deg,omitempty" yaml:"reference_wall_normal_deg,omitempty"`
	SunAlgorithm           string   `json:"sun_algorithm,omitempty" yaml:"sun_algorithm,omitempty"`
}

type CornerFile struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type VisualizationFile struct {
	WallLength *float64 `json:"wall_length,omitempty" yaml:"wall_length,omitempty"`
	DrawLength *float64 `json:"draw_length,omitempty" yaml:"draw_length,omitempty"`
}

type WallFile struct {
	ID                      string             `json:"id" yaml:"id"`
	OutwardNormalAzimuthDeg *float64           `json:"outward_normal_azimuth_deg" yaml:"outward_normal_azimuth_deg"`
	Thickness               *float64           `json:"thickness,omitempty" yaml:"thickness,omitempty"`
	Axis                    string             `json:"axis,omitempty" yaml:"axis,omitempty"`
	DrawLength              *float64           `json:"draw_length,omitempty" yaml:"draw_length,omitempty"`
	WallLength              *float64           `json:"wall_length,omitempty" yaml:"wall_length,omitempty"`
	Visualization           *VisualizationFile `json:"visualization,omitempty" yaml:"visualization,omitempty"`
}

type WindowFile struct {
	ID     string `json:"id" yaml:"id"`
	WallID string `json:"wall_id,omitempty" yaml:"wall_id,omitempty"`
	// Center is [x, y] or [x, y, z].
	Center               []float64 `json:"center,omitempty" yaml:"center,omitempty"`
	Width                *float64  `json:"width" yaml:"width"`
	Height               *float64  `json:"height" yaml:"height"`
	WallNormalAzimuthDeg *float64  `json:"wall_normal_azimuth_deg,omitempty" yaml:"wall_normal_azimuth_deg,omitempty"`
	WallThickness        *float64  `json:"wall_thickness,omitempty" yaml:"wall_thickness,omitempty"`
	Axis                 string    `json:"axis,omitempty" yaml:"axis,omitempty"`
	PositionAlongWall    *float64  `json:"position_along_wall,omitempty" yaml:"position_along_wall,omitempty"`
	XPosition            *float64  `json:"x_position,omitempty" yaml:"x_position,omitempty"`
	YPosition            *float64  `json:"y_position,omitempty" yaml:"y_position,omitempty"`
	ZBottom              *float64  `json:"z_bottom,omitempty" yaml:"z_bottom,omitempty"`
	ZTop                 *float64  `json:"z_top,omitempty" yaml:"z_top,omitempty"`
}

type PlantFile struct {
	CenterX       *float64 `json:"center_x,omitempty" yaml:"center_x,omitempty"`
	CenterY       *float64 `json:"center_y,omitempty" yaml:"center_y,omitempty"`
	Radius        float64  `json:"radius" yaml:"radius"`
	ZMin          float64  `json:"z_min" yaml:"z_min"`
	ZMax          float64  `json:"z_max" yaml:"z_max"`
	DistFromWall1 *float64 `json:"dist_from_wall1,omitempty" yaml:"dist_from_wall1,omitempty"`
	DistFromWall2 *float64 `json:"dist_from_wall2,omitempty" yaml:"dist_from_wall2,omitempty"`
	Wall1ID       string   `json:"wall1_id,omitempty" yaml:"wall1_id,omitempty"`
	Wall2ID       string   `json:"wall2_id,omitempty" yaml:"wall2_id,omitempty"`
}

type SimulationFile struct {
	SamplePointsAngular  *int `json:"sample_points_angular,omitempty" yaml:"sample_points_angular,omitempty"`
	SamplePointsVertical *int `json:"sample_points_vertical,omitempty" yaml:"sample_points_vertical,omitempty"`
}

type LocationFile struct {
	Latitude       float64  `json:"latitude" yaml:"latitude"`
	Longitude      float64  `json:"longitude" yaml:"longitude"`
	TimezoneOffset *float64 `json:"timezone_offset,omitempty" yaml:"timezone_offset,omitempty"`
	TimezoneName   string   `json:"timezone_name,omitempty" yaml:"timezone_name,omitempty"`
}
