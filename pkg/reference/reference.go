// Package reference carries the offline district and constituency table
// for Kerala's legislative assembly. The table seeds the selection flow
// without a network round trip; the live knowledge-graph listing stays
// available as an alternative source.
package reference

import "sort"

// keralaConstituencies maps each district to its assembly constituencies
// as delimited for the 2021 assembly.
var keralaConstituencies = map[string][]string{
	"Thiruvananthapuram": {"Kazhakoottam", "Vattiyoorkavu", "Thiruvananthapuram", "Nemom", "Aruvikkara", "Parassala", "Kovalam", "Neyyattinkara"},
	"Kollam":             {"Chavara", "Kunnathur", "Kollam", "Eravipuram", "Chathannoor", "Kundara", "Kottarakkara", "Pathanapuram", "Punalur", "Chadayamangalam"},
	"Pathanamthitta":     {"Adoor", "Konni", "Ranni", "Aranmula", "Thiruvalla"},
	"Alappuzha":          {"Kayamkulam", "Haripad", "Alappuzha", "Ambalappuzha", "Kuttanad", "Chengannur", "Mavelikkara", "Cherthala", "Aroor"},
	"Kottayam":           {"Pala", "Kaduthuruthy", "Vaikom", "Ettumanoor", "Kottayam", "Puthuppally", "Changanassery", "Kanjirappally", "Poonjar"},
	"Idukki":             {"Devikulam", "Udumbanchola", "Thodupuzha", "Idukki", "Peerumade"},
	"Ernakulam":          {"Perumbavoor", "Angamaly", "Aluva", "Kalamassery", "Paravur", "Vypen", "Kochi", "Thrippunithura", "Ernakulam", "Thrikkakara", "Kunnathunad", "Piravom", "Muvattupuzha", "Kothamangalam"},
	"Thrissur":           {"Chalakudy", "Kodungallur", "Thrissur", "Ollur", "Guruvayur", "Manalur", "Wadakkanchery", "Irinjalakuda", "Puthukkad", "Chelakkara", "Kunnamkulam", "Chavakkad", "Nattika"},
	"Palakkad":           {"Alathur", "Chittur", "Nemmara", "Palakkad", "Tarur", "Pattambi", "Thrithala", "Shornur", "Ottapalam", "Kongad", "Malampuzha"},
	"Malappuram":         {"Mankada", "Malappuram", "Vengara", "Vallikkunnu", "Tirurangadi", "Tanur", "Tirur", "Kottakkal", "Thavanur", "Ponnani", "Thrithala", "Perinthalmanna", "Manjeri", "Wandoor", "Nilambur", "Kondotty"},
	"Kozhikode":          {"Vadakara", "Kuttiadi", "Nadapuram", "Quilandy", "Perambra", "Balusseri", "Elathur", "Kozhikode North", "Kozhikode South", "Beypore", "Kunnamangalam", "Koduvally", "Thiruvambady"},
	"Wayanad":            {"Mananthavady", "Sulthan Bathery", "Kalpetta"},
	"Kannur":             {"Thalassery", "Kuthuparamba", "Mattannur", "Peravoor", "Kannur", "Azhikode", "Dharmadam", "Taliparamba", "Irikkur", "Payyannur", "Kalliasseri"},
	"Kasaragod":          {"Manjeshwaram", "Kasaragod", "Udma", "Kanhangad", "Trikaripur"},
}

// Districts returns all district names in alphabetical order.
func Districts() []string {
	names := make([]string, 0, len(keralaConstituencies))
	for name := range keralaConstituencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Constituencies returns the district's constituencies in their
// tabled order. The second return reports whether the district exists.
func Constituencies(district string) ([]string, bool) {
	list, ok := keralaConstituencies[district]
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, true
}

// HasConstituency reports whether the named constituency belongs to the
// given district.
func HasConstituency(district, constituency string) bool {
	list, ok := keralaConstituencies[district]
	if !ok {
		return false
	}
	for _, name := range list {
		if name == constituency {
			return true
		}
	}
	return false
}
