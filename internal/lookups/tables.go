package lookups

// Static stellar data tables. Lifetimes follow the Schaller et al.
// (1992) tracks, remnant masses Iben & Tutukov (1984), LIMS metal
// yields van den Hoek & Groenewegen (1997), massive-star yields Maeder
// (1992) and supernova dust masses Todini & Ferrara (2001). Each table
// carries a low- and a high-metallicity branch where the source does.

// BranchThreshold splits the metallicity branches: Z below this uses
// the low-metals column, at or above uses the high-metals column.
const BranchThreshold = 0.004

// Progenitor mass limits used by the supernova channels.
const (
	MinSNMass = 9.0
	MaxSNMass = 40.0
)

// MaxTableMass is the heaviest star the tables describe.
const MaxTableMass = 120.0

type branchRow struct {
	Mass       float64
	LowMetals  float64
	HighMetals float64
}

// lifetimes holds main-sequence lifetimes in Gyr, strictly decreasing
// with mass on both branches.
var lifetimes = []branchRow{
	{0.8, 17.122, 19.445},
	{0.9, 12.756, 14.486},
	{1.0, 9.8026, 11.133},
	{1.1, 7.7249, 8.773},
	{1.2, 6.2152, 7.0586},
	{1.3, 5.0885, 5.779},
	{1.5, 3.5589, 4.0419},
	{1.7, 2.6034, 2.9568},
	{2.0, 1.735, 1.9706},
	{2.3, 1.2241, 1.3904},
	{2.6, 0.90167, 1.0242},
	{3.0, 0.63127, 0.71715},
	{3.5, 0.43022, 0.48883},
	{4.0, 0.30885, 0.35099},
	{5.0, 0.17791, 0.20229},
	{6.0, 0.11373, 0.12941},
	{7.0, 0.078193, 0.089047},
	{8.0, 0.056738, 0.064682},
	{9.0, 0.042929, 0.049},
	{10.0, 0.03359, 0.038394},
	{12.0, 0.022246, 0.025511},
	{15.0, 0.013846, 0.015972},
	{20.0, 0.0080784, 0.0094215},
	{30.0, 0.004588, 0.0054577},
	{40.0, 0.0035684, 0.0042998},
	{60.0, 0.0029514, 0.0035991},
	{85.0, 0.0027471, 0.0033671},
	{120.0, 0.0026621, 0.0032706},
}

// metalYields holds the fresh metal mass (Msun) ejected over a star's
// life. The high-metallicity branch is suppressed for LIMS (less
// efficient dredge-up) and for the most massive stars (wind losses
// before collapse).
var metalYields = []branchRow{
	{0.9, 0.0, 0.0},
	{1.0, 0.002, 0.0014},
	{1.3, 0.006, 0.0042},
	{1.5, 0.009, 0.0065},
	{2.0, 0.021, 0.016},
	{2.5, 0.036, 0.028},
	{3.0, 0.055, 0.044},
	{3.5, 0.078, 0.063},
	{4.0, 0.098, 0.081},
	{5.0, 0.118, 0.100},
	{6.0, 0.129, 0.112},
	{7.0, 0.138, 0.122},
	{8.0, 0.146, 0.130},
	{9.0, 0.27, 0.26},
	{12.0, 0.83, 0.79},
	{15.0, 1.53, 1.42},
	{20.0, 2.94, 2.63},
	{25.0, 4.48, 3.85},
	{30.0, 6.20, 5.05},
	{40.0, 9.05, 6.50},
	{60.0, 14.2, 7.90},
	{85.0, 19.6, 8.90},
	{120.0, 26.1, 9.60},
}

// oxygenYields holds the fresh oxygen mass (Msun) ejected; LIMS make
// essentially none, massive stars dominate.
var oxygenYields = []branchRow{
	{0.9, 0.0, 0.0},
	{1.0, 0.0001, 0.0001},
	{1.5, 0.0004, 0.0003},
	{2.0, 0.0009, 0.0007},
	{3.0, 0.0022, 0.0018},
	{4.0, 0.0038, 0.0031},
	{5.0, 0.0046, 0.0039},
	{6.0, 0.0050, 0.0043},
	{7.0, 0.0053, 0.0046},
	{8.0, 0.0056, 0.0048},
	{9.0, 0.16, 0.15},
	{12.0, 0.52, 0.49},
	{15.0, 0.98, 0.90},
	{20.0, 1.95, 1.72},
	{25.0, 3.01, 2.55},
	{30.0, 4.22, 3.38},
	{40.0, 6.25, 4.40},
	{60.0, 9.90, 5.40},
	{85.0, 13.8, 6.10},
	{120.0, 18.4, 6.60},
}

// snDust holds the fresh dust mass (Msun) condensed in supernova
// ejecta, defined over the progenitor range [MinSNMass, MaxSNMass].
var snDust = []struct {
	Mass float64
	Dust float64
}{
	{9.0, 0.17},
	{12.0, 0.2},
	{15.0, 0.5},
	{20.0, 0.5},
	{22.0, 0.8},
	{25.0, 1.0},
	{30.0, 1.0},
	{35.0, 0.6},
	{40.0, 0.4},
}

func branchColumn(rows []branchRow, z float64) ([]float64, []float64) {
	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Mass
		if z < BranchThreshold {
			ys[i] = r.LowMetals
		} else {
			ys[i] = r.HighMetals
		}
	}
	return xs, ys
}

// Lifetime returns the main-sequence lifetime in Gyr of a star of mass
// m born at metallicity z, from the nearest tabulated mass.
func Lifetime(m, z float64) float64 {
	xs, ys := branchColumn(lifetimes, z)
	v, _ := Nearest(xs, ys, m)
	return v
}

// MassFromLifetime inverts the lifetime table: the mass of the star
// whose main-sequence lifetime is nearest to t at metallicity z. Stars
// above this mass born at t=0 are already dead at time t.
func MassFromLifetime(t, z float64) float64 {
	// Lifetimes decrease with mass, so scan the reversed column to
	// keep the ascending-order contract of Nearest.
	n := len(lifetimes)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, r := range lifetimes {
		life := r.LowMetals
		if z >= BranchThreshold {
			life = r.HighMetals
		}
		xs[n-1-i] = life
		ys[n-1-i] = r.Mass
	}
	v, _ := Nearest(xs, ys, t)
	return v
}

// FreshMetals returns the newly synthesized metal mass ejected by a
// star of mass m born at metallicity z.
func FreshMetals(m, z float64) float64 {
	xs, ys := branchColumn(metalYields, z)
	v, _ := Nearest(xs, ys, m)
	return v
}

// FreshOxygen returns the newly synthesized oxygen mass ejected by a
// star of mass m born at metallicity z.
func FreshOxygen(m, z float64) float64 {
	xs, ys := branchColumn(oxygenYields, z)
	v, _ := Nearest(xs, ys, m)
	return v
}

// SNDustMass returns the fresh dust mass condensed in the ejecta of a
// supernova progenitor of mass m, zero outside the progenitor range.
func SNDustMass(m float64) float64 {
	if m < MinSNMass || m > MaxSNMass {
		return 0
	}
	xs := make([]float64, len(snDust))
	ys := make([]float64, len(snDust))
	for i, r := range snDust {
		xs[i] = r.Mass
		ys[i] = r.Dust
	}
	v, _ := Nearest(xs, ys, m)
	return v
}

// RemnantMass returns the mass locked in the stellar remnant: white
// dwarfs below 9 Msun, neutron stars to 25 Msun, black holes above.
func RemnantMass(m float64) float64 {
	switch {
	case m <= 9.0:
		return 0.106*m + 0.446
	case m < 25.0:
		return 1.5
	default:
		return 0.61*m - 13.75
	}
}
