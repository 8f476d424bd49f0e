package inventory

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/AioliaTech/api-ia/internal/domain"
)

// xmlFeed accepts both <estoque><veiculo>… and <estoque><veiculos><veiculo>…
// layouts; the root element name is not checked.
type xmlFeed struct {
	Vehicles []xmlVehicle `xml:"veiculo"`
	Nested   []xmlVehicle `xml:"veiculos>veiculo"`
}

type xmlVehicle struct {
	ID              string  `xml:"id"`
	Title           string  `xml:"titulo"`
	Brand           string  `xml:"marca"`
	Model           string  `xml:"modelo"`
	Version         string  `xml:"versao"`
	Category        string  `xml:"categoria"`
	Color           string  `xml:"cor"`
	Fuel            string  `xml:"combustivel"`
	Transmission    string  `xml:"cambio"`
	Engine          string  `xml:"motor"`
	Doors           string  `xml:"portas"`
	Year            string  `xml:"ano"`
	ManufactureYear string  `xml:"ano_fabricacao"`
	Mileage         string  `xml:"km"`
	Price           string  `xml:"preco"`
	Options         xmlList `xml:"opcionais"`
	Photos          xmlList `xml:"fotos"`
}

// xmlList reads either child elements (<opcionais><opcional>a</opcional>…)
// or a delimited text body (<opcionais>a, b</opcionais>).
type xmlList []string

func (l *xmlList) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var item string
			if err := d.DecodeElement(&item, &t); err != nil {
				return err
			}
			if item = strings.TrimSpace(item); item != "" {
				*l = append(*l, item)
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(*l) == 0 {
				*l = xmlList(SplitList(text.String()))
			}
			return nil
		}
	}
}

// ParseXMLFeed converts a dealer stock XML feed into vehicles.
func ParseXMLFeed(r io.Reader) ([]Vehicle, error) {
	var feed xmlFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.DataError("empty XML feed", domain.ErrInvalidSnapshot)
		}
		return nil, domain.DataError("decode XML feed", err)
	}

	items := append(feed.Vehicles, feed.Nested...)
	vehicles := make([]Vehicle, 0, len(items))
	for _, x := range items {
		vehicles = append(vehicles, x.toVehicle())
	}
	return vehicles, nil
}

func (x xmlVehicle) toVehicle() Vehicle {
	return Vehicle{
		ID:              Text(strings.TrimSpace(x.ID)),
		Title:           Text(strings.TrimSpace(x.Title)),
		Brand:           Text(strings.TrimSpace(x.Brand)),
		Model:           Text(strings.TrimSpace(x.Model)),
		Version:         Text(strings.TrimSpace(x.Version)),
		Category:        Text(strings.TrimSpace(x.Category)),
		Color:           Text(strings.TrimSpace(x.Color)),
		Fuel:            Text(strings.TrimSpace(x.Fuel)),
		Transmission:    Text(strings.TrimSpace(x.Transmission)),
		Engine:          Text(strings.TrimSpace(x.Engine)),
		Doors:           NumberText(x.Doors),
		Year:            NumberText(x.Year),
		ManufactureYear: NumberText(x.ManufactureYear),
		Mileage:         NumberText(x.Mileage),
		Price:           NumberText(x.Price),
		Options:         StringList(x.Options),
		Photos:          StringList(x.Photos),
	}
}
