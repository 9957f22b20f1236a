package catalog

// CameraModel is a reference entry describing a camera model.
type CameraModel struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Brand          string `json:"brand,omitempty" yaml:"brand,omitempty"`
	Model          string `json:"model,omitempty" yaml:"model,omitempty"`
	SpecificModel  string `json:"specific_model,omitempty" yaml:"specific_model,omitempty"`
	Capacity       int    `json:"capacity" yaml:"capacity"`
	DefaultImage   string `json:"default_image" yaml:"default_image"`
	DefaultIcon    string `json:"default_icon" yaml:"default_icon"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	YearIntroduced int    `json:"year_introduced" yaml:"year_introduced"`
	// FilmType lists compatible film codes separated by "/", e.g. "600/i-Type".
	FilmType string `json:"film_type,omitempty" yaml:"film_type,omitempty"`
}

// FilmPackType is a film format such as 600 or SX-70.
type FilmPackType struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	DefaultCapacity int    `json:"default_capacity" yaml:"default_capacity"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FilmPackModel is a film variant such as Color or Duochrome.
// Category holds the film type name the model belongs to.
type FilmPackModel struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string    `json:"category" yaml:"category"`
	Gradient    *Gradient `json:"gradient,omitempty" yaml:"gradient,omitempty"`
}

// Gradient is the optional swatch used to render a film model.
type Gradient struct {
	Stops      []GradientStop `json:"stops" yaml:"stops"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty"`
	StartPoint *Point         `json:"startPoint,omitempty" yaml:"start_point,omitempty"`
	EndPoint   *Point         `json:"endPoint,omitempty" yaml:"end_point,omitempty"`
	Center     *Point         `json:"center,omitempty" yaml:"center,omitempty"`
}

// IsElliptical reports whether the gradient is radial.
func (g Gradient) IsElliptical() bool {
	return g.Type == "elliptical"
}

// GradientStop is one color stop of a Gradient.
type GradientStop struct {
	Color    RGB     `json:"color" yaml:"color"`
	Location float64 `json:"location" yaml:"location"`
}

// RGB is a color with channels in [0,1].
type RGB struct {
	Red   float64 `json:"red" yaml:"red"`
	Green float64 `json:"green" yaml:"green"`
	Blue  float64 `json:"blue" yaml:"blue"`
}

// Point is a unit-space coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// CameraModelsDocument is the published camera catalog document.
type CameraModelsDocument struct {
	CameraModels []CameraModel `json:"camera_models" yaml:"camera_models"`
}

// FilmPackModelsDocument is the published film catalog document.
type FilmPackModelsDocument struct {
	FilmPackTypes  []FilmPackType  `json:"film_pack_types" yaml:"film_pack_types"`
	FilmPackModels []FilmPackModel `json:"film_pack_models" yaml:"film_pack_models"`
}
