package collection

// defaultList is served to users without a list page of their own.
const defaultList = `
== Spain ==
# { lat: 43.0, lon: 1.17 }
# Quercus robur
# Erinaceus europaeus
# Pica pica
# Podarcis muralis
# Hyla arborea

== Indonesia ==
# { lat: 0.27, lon: 115.03 }
# Polypedates otilophus
# Draco quinquefasciatus
# Pongo pygmaeus
# Helarctos malayanus
# Neofelis diardi
# Tragulus kanchil
# Hylobates muelleri
# Hydrornis baudii
# Hydrornis schwaneri
# Trogonoptera brookiana
`
