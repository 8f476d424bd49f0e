package vocabulary

// modelCategories assigns a body type to well known models. Keys are
// normalized model names.
var modelCategories = map[string]string{
	// Hatch
	"gol": "Hatch", "uno": "Hatch", "palio": "Hatch", "celta": "Hatch", "ka": "Hatch",
	"fiesta": "Hatch", "march": "Hatch", "sandero": "Hatch", "onix": "Hatch", "hb20": "Hatch",
	"i30": "Hatch", "golf": "Hatch", "polo": "Hatch", "fox": "Hatch", "up": "Hatch",
	"fit": "Hatch", "city": "Hatch", "yaris": "Hatch", "etios": "Hatch", "clio": "Hatch",
	"corsa": "Hatch", "bravo": "Hatch", "punto": "Hatch", "208": "Hatch", "argo": "Hatch",
	"mobi": "Hatch", "c3": "Hatch", "picanto": "Hatch", "astra hatch": "Hatch", "stilo": "Hatch",
	"focus hatch": "Hatch", "206": "Hatch", "c4 vtr": "Hatch", "kwid": "Hatch", "soul": "Hatch",
	"agile": "Hatch", "sonic hatch": "Hatch", "fusca": "Hatch",

	// Sedan
	"civic": "Sedan", "corolla": "Sedan", "sentra": "Sedan", "versa": "Sedan", "jetta": "Sedan",
	"prisma": "Sedan", "voyage": "Sedan", "siena": "Sedan", "grand siena": "Sedan", "cruze": "Sedan",
	"cobalt": "Sedan", "logan": "Sedan", "fluence": "Sedan", "cerato": "Sedan", "elantra": "Sedan",
	"virtus": "Sedan", "accord": "Sedan", "altima": "Sedan", "fusion": "Sedan", "mazda3": "Sedan",
	"mazda6": "Sedan", "passat": "Sedan", "city sedan": "Sedan", "astra sedan": "Sedan", "vectra sedan": "Sedan",
	"classic": "Sedan", "cronos": "Sedan", "linea": "Sedan", "focus sedan": "Sedan", "ka sedan": "Sedan",
	"408": "Sedan", "c4 pallas": "Sedan", "polo sedan": "Sedan", "bora": "Sedan", "hb20s": "Sedan",
	"lancer": "Sedan", "camry": "Sedan", "onix plus": "Sedan",

	// SUV
	"duster": "SUV", "ecosport": "SUV", "hrv": "SUV", "compass": "SUV", "renegade": "SUV",
	"tracker": "SUV", "kicks": "SUV", "captur": "SUV", "creta": "SUV", "tucson": "SUV",
	"santa fe": "SUV", "sorento": "SUV", "sportage": "SUV", "outlander": "SUV", "asx": "SUV",
	"pajero": "SUV", "tr4": "SUV", "aircross": "SUV", "tiguan": "SUV", "t-cross": "SUV",
	"rav4": "SUV", "cx5": "SUV", "forester": "SUV", "wrv": "SUV", "land cruiser": "SUV",
	"cherokee": "SUV", "grand cherokee": "SUV", "xtrail": "SUV", "murano": "SUV", "cx9": "SUV",
	"edge": "SUV", "trailblazer": "SUV", "pulse": "SUV", "fastback": "SUV", "territory": "SUV",
	"bronco sport": "SUV", "2008": "SUV", "3008": "SUV", "c4 cactus": "SUV", "taos": "SUV",
	"cr-v": "SUV", "corolla cross": "SUV", "sw4": "SUV", "pajero sport": "SUV", "commander": "SUV",
	"xv": "SUV", "xc60": "SUV", "tiggo 5x": "SUV", "haval h6": "SUV", "nivus": "SUV",
}

// ModelCategories returns a copy of the built-in model → body type table.
func ModelCategories() map[string]string {
	out := make(map[string]string, len(modelCategories))
	for k, v := range modelCategories {
		out[k] = v
	}
	return out
}

// spelledModels covers models users commonly type differently from the
// table key.
var spelledModels = map[string][]string{
	"hrv":    {"hr-v"},
	"wrv":    {"wr-v"},
	"cx5":    {"cx-5"},
	"cx9":    {"cx-9"},
	"xtrail": {"x-trail"},
	"rav4":   {"rav 4"},
	"hb20":   {"hb 20"},
	"hb20s":  {"hb 20s", "hb20 s"},
}

var defaultBrands = []Entry{
	{Canonical: "chevrolet", Variants: []string{"gm", "chevy"}},
	{Canonical: "volkswagen", Variants: []string{"vw", "volks"}},
	{Canonical: "fiat"},
	{Canonical: "ford"},
	{Canonical: "toyota"},
	{Canonical: "honda"},
	{Canonical: "hyundai"},
	{Canonical: "renault"},
	{Canonical: "nissan"},
	{Canonical: "jeep"},
	{Canonical: "peugeot"},
	{Canonical: "citroen", Variants: []string{"citroën"}},
	{Canonical: "mitsubishi"},
	{Canonical: "kia", Variants: []string{"kia motors"}},
	{Canonical: "bmw"},
	{Canonical: "mercedes-benz", Variants: []string{"mercedes", "mercedes benz"}},
	{Canonical: "audi"},
	{Canonical: "volvo"},
	{Canonical: "chery", Variants: []string{"caoa chery"}},
	{Canonical: "byd"},
	{Canonical: "gwm", Variants: []string{"great wall"}},
	{Canonical: "ram"},
	{Canonical: "land rover"},
	{Canonical: "suzuki"},
	{Canonical: "subaru"},
	{Canonical: "dodge"},
	{Canonical: "mini"},
	{Canonical: "porsche"},
	{Canonical: "jac"},
	{Canonical: "mazda"},
}

var defaultBodyTypes = []Entry{
	{Canonical: "Hatch", Variants: []string{"hatchback", "hatches"}},
	{Canonical: "Sedan", Variants: []string{"seda", "sedans"}},
	{Canonical: "SUV", Variants: []string{"suvs", "utilitario esportivo"}},
	{Canonical: "Pickup", Variants: []string{"picape", "picapes", "pick-up", "caminhonete"}},
	{Canonical: "Utility", Variants: []string{"utilitario", "utilitarios"}},
	{Canonical: "Van", Variants: []string{"furgao", "vans"}},
	{Canonical: "Coupe", Variants: []string{"cupe", "coupê", "cupê"}},
	{Canonical: "Convertible", Variants: []string{"conversivel", "cabriolet", "cabrio"}},
	{Canonical: "Minivan", Variants: []string{"monovolume"}},
	{Canonical: "Wagon", Variants: []string{"perua", "station wagon"}},
	{Canonical: "Off-road", Variants: []string{"fora de estrada", "4x4"}},
}

var defaultColors = []Entry{
	{Canonical: "branco", Variants: []string{"branca", "brancos"}},
	{Canonical: "preto", Variants: []string{"preta", "pretos"}},
	{Canonical: "prata", Variants: []string{"prateado", "prateada"}},
	{Canonical: "cinza", Variants: []string{"cinzento", "chumbo"}},
	{Canonical: "grafite"},
	{Canonical: "vermelho", Variants: []string{"vermelha"}},
	{Canonical: "azul"},
	{Canonical: "verde"},
	{Canonical: "amarelo", Variants: []string{"amarela"}},
	{Canonical: "marrom"},
	{Canonical: "bege"},
	{Canonical: "dourado", Variants: []string{"dourada"}},
	{Canonical: "laranja"},
	{Canonical: "vinho", Variants: []string{"bordo"}},
	{Canonical: "champagne", Variants: []string{"champanhe"}},
}

var defaultFuels = []Entry{
	{Canonical: "flex", Variants: []string{"bicombustivel", "total flex"}},
	{Canonical: "gasolina"},
	{Canonical: "etanol", Variants: []string{"alcool"}},
	{Canonical: "diesel"},
	{Canonical: "elétrico", Variants: []string{"eletrica", "eletricos"}},
	{Canonical: "híbrido", Variants: []string{"hibrida", "hibridos"}},
	{Canonical: "gnv"},
}

var defaultTransmissions = []Entry{
	{Canonical: "automático", Variants: []string{"automatica", "automaticos", "cambio automatico"}},
	{Canonical: "manual", Variants: []string{"mecanico", "cambio manual"}},
	{Canonical: "automatizado", Variants: []string{"automatizada"}},
	{Canonical: "cvt"},
}

var defaultEngines = []Entry{
	{Canonical: "1.0"},
	{Canonical: "1.3"},
	{Canonical: "1.4"},
	{Canonical: "1.5"},
	{Canonical: "1.6"},
	{Canonical: "1.8"},
	{Canonical: "2.0"},
	{Canonical: "2.4"},
	{Canonical: "2.8"},
	{Canonical: "3.0"},
	{Canonical: "turbo"},
	{Canonical: "tsi"},
	{Canonical: "v6"},
	{Canonical: "v8"},
}

var defaultOptions = []Entry{
	{Canonical: "teto solar", Variants: []string{"teto panoramico"}},
	{Canonical: "ar condicionado", Variants: []string{"ar-condicionado", "ar digital"}},
	{Canonical: "direção elétrica", Variants: []string{"direcao eletrica"}},
	{Canonical: "direção hidráulica", Variants: []string{"direcao hidraulica"}},
	{Canonical: "vidros elétricos", Variants: []string{"vidro eletrico"}},
	{Canonical: "travas elétricas", Variants: []string{"trava eletrica"}},
	{Canonical: "bancos de couro", Variants: []string{"banco de couro", "bancos em couro"}},
	{Canonical: "central multimídia", Variants: []string{"multimidia", "central multimidia"}},
	{Canonical: "câmera de ré", Variants: []string{"camera de re", "camera de estacionamento"}},
	{Canonical: "sensor de estacionamento", Variants: []string{"sensor de re"}},
	{Canonical: "piloto automático", Variants: []string{"controle de cruzeiro"}},
	{Canonical: "rodas de liga leve", Variants: []string{"roda de liga", "rodas de liga"}},
	{Canonical: "airbag", Variants: []string{"air bag", "airbags"}},
	{Canonical: "freios abs", Variants: []string{"abs"}},
	{Canonical: "alarme"},
	{Canonical: "chave presencial", Variants: []string{"partida sem chave"}},
	{Canonical: "start stop", Variants: []string{"start-stop"}},
	{Canonical: "apple carplay", Variants: []string{"carplay"}},
	{Canonical: "android auto"},
	{Canonical: "gps", Variants: []string{"navegador"}},
}

// DefaultBuilder returns a Builder seeded with the built-in dictionaries:
// common brands, the model table, body types, colors, fuels,
// transmissions, engines and options.
func DefaultBuilder() *Builder {
	b := NewBuilder()
	addAll(b, Brand, defaultBrands)
	for model, category := range modelCategories {
		b.Add(Model, model, spelledModels[model]...)
		b.MapModel(model, category)
		for _, v := range spelledModels[model] {
			b.MapModel(v, category)
		}
	}
	addAll(b, BodyType, defaultBodyTypes)
	addAll(b, Color, defaultColors)
	addAll(b, Fuel, defaultFuels)
	addAll(b, Transmission, defaultTransmissions)
	addAll(b, Engine, defaultEngines)
	addAll(b, Option, defaultOptions)
	return b
}

// Default builds an Index from the built-in dictionaries only.
func Default() *Index {
	return DefaultBuilder().Build()
}

func addAll(b *Builder, cat Category, entries []Entry) {
	for _, e := range entries {
		b.Add(cat, e.Canonical, e.Variants...)
	}
}
