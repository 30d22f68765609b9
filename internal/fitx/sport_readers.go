package fitx

// Fields selects which device fields a sport reader keeps.
type Fields uint8

const (
	FieldHR Fields = 1 << iota
	FieldSpeed
	FieldCadence
	FieldPower
	FieldDistance
	FieldPosition
	FieldAltitude
)

const (
	RunningFields  = FieldHR | FieldSpeed | FieldCadence | FieldDistance | FieldPower | FieldPosition | FieldAltitude
	CyclingFields  = FieldHR | FieldCadence | FieldSpeed | FieldPower
	SwimmingFields = Fields(0)
)

// Select returns a copy of r keeping the timestamp and the fields in f.
func (r Record) Select(f Fields) Record {
	out := Record{Timestamp: r.Timestamp}
	if f&FieldHR != 0 {
		out.HR = r.HR
	}
	if f&FieldSpeed != 0 {
		out.SpeedMPS = r.SpeedMPS
	}
	if f&FieldCadence != 0 {
		out.Cad = r.Cad
	}
	if f&FieldPower != 0 {
		out.PowerW = r.PowerW
	}
	if f&FieldDistance != 0 {
		out.DistanceM = r.DistanceM
	}
	if f&FieldPosition != 0 {
		out.Lat, out.Lon = r.Lat, r.Lon
	}
	if f&FieldAltitude != 0 {
		out.ElevM = r.ElevM
	}
	return out
}

// ReadRunning keeps every field running analysis may use, pace included.
func ReadRunning(path string) ([]Record, error) {
	return readSelected(path, RunningFields, false)
}

// ReadCycling keeps HR, cadence, speed and power, and drops unstamped records.
func ReadCycling(path string) ([]Record, error) {
	return readSelected(path, CyclingFields, true)
}

// ReadSwimming keeps stamped timestamps only; swims count toward volume.
func ReadSwimming(path string) ([]Record, error) {
	return readSelected(path, SwimmingFields, true)
}

func readSelected(path string, f Fields, stampedOnly bool) ([]Record, error) {
	_, recs, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if stampedOnly && r.Timestamp.IsZero() {
			continue
		}
		out = append(out, r.Select(f))
	}
	return out, nil
}
