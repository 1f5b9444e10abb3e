package dashboard

// explanations are keyed "<page>.<metric>" and can be overridden from the
// configuration file.
var explanations = map[string]string{
	"territorial.companies": "**Cantidad de empresas por sector en cada territorio**\n\n" +
		"Cuántas empresas tienen su casa matriz en cada territorio y a qué actividades se dedican. " +
		"Permite ver la concentración empresarial y las actividades que predominan en cada zona.",
	"territorial.profit_share": "**Participación de ganancias por sector en cada territorio**\n\n" +
		"Cómo se reparten las ganancias declaradas entre los territorios y qué sectores las generan.",
	"territorial.profitability": "**Participación de ganancias/empresas en cada territorio**\n\n" +
		"Porcentaje de las ganancias nacionales dividido por el porcentaje de las empresas del país, por 100. " +
		"Un valor mayor a 100 indica que las empresas del territorio generan más ganancias de lo que su número haría esperar.",
	"territorial.density": "**Cantidad de empresas/población en cada territorio**\n\n" +
		"Empresas con casa matriz en el territorio por cada habitante. Estandariza la cantidad de empresas por el tamaño de la población.",
	"territorial.profit_per_population": "**Participación de ganancias/población en cada territorio**\n\n" +
		"Porcentaje de las ganancias nacionales dividido por el porcentaje de la población nacional. " +
		"Un coeficiente de 1 indica ganancias proporcionales a la población.",
	"territorial.activity_breadth": "**Cantidad de actividades por cada territorio**\n\n" +
		"Cuántas actividades económicas distintas se desarrollan en el territorio: una medida de la diversidad de su economía.",
	"activities.companies": "**Distribución de actividades por territorio según cantidad de empresas**\n\n" +
		"Cantidad de empresas que desarrollan la actividad seleccionada en cada departamento y distrito.",
	"activities.profit_share": "**Distribución de ganancias según actividad económica**\n\n" +
		"Participación de cada actividad en las ganancias generadas en los departamentos y distritos del país.",
	"activities.profitability": "**Relación entre ganancias y empresas por sector**\n\n" +
		"Porcentaje de ganancias del sector dividido por su porcentaje de empresas, por 100, desglosado por departamento y distrito.",
	"activities.companies_by_level": "**Cantidad de empresas según actividad económica**\n\n" +
		"Cantidad de empresas por sección, división y actividad económica.",
	"activities.profit_by_level": "**Ganancias por actividad económica**\n\n" +
		"Ganancias declaradas por sección, división y actividad económica, en guaraníes.",
	"activities.district_reach": "**Cantidad de distritos por actividad económica**\n\n" +
		"En cuántos distritos se desarrolla cada actividad: qué tan extendida o concentrada está en el país.",
}
