// Package prompts centralizes the LLM prompt templates used by the content
// generation routines. All generated copy targets French storefronts.
package prompts

// SystemWriter frames every generation call: e-commerce copywriting in
// French with SEO constraints.
const SystemWriter = `Tu es un rédacteur e-commerce SEO francophone. Tu rédiges des contenus
naturels, structurés en HTML simple (p, h2, h3, ul, li), sans mention de
l'IA, sans superlatifs creux, et en intégrant le mot-clé fourni de façon
naturelle. Tu réponds uniquement avec le contenu demandé, sans préambule.`

// LongDescription asks for a full product description.
// Placeholders: product name, category, focus keyword.
const LongDescription = `Rédige une description longue (300 à 500 mots) pour le produit « %s »
(catégorie : %s). Mot-clé principal : « %s ». Structure avec des sous-titres
H2/H3, un paragraphe d'introduction contenant le mot-clé, et une liste des
bénéfices.`

// ShortDescription asks for the short summary shown in product listings.
const ShortDescription = `Rédige une description courte (40 à 60 mots) pour le produit « %s ».
Mot-clé principal : « %s ». Une ou deux phrases percutantes, sans HTML.`

// MetaDescription asks for the SERP snippet.
const MetaDescription = `Rédige une meta description de 150 à 160 caractères pour le produit
« %s ». Mot-clé principal : « %s ». Inclue un appel à l'action. Réponds avec
le texte seul, sans guillemets.`

// KeepExistingLinks is appended to a regeneration prompt when the existing
// internal links must survive the rewrite. Placeholder: current description.
const KeepExistingLinks = `

Reprends tels quels tous les liens <a> (mêmes href, mêmes ancres) présents
dans la description actuelle :

%s`

// KeepLinksVerbatim is appended to the translation prompt when internal
// links must survive the rewrite.
const KeepLinksVerbatim = `

Ne traduis pas les attributs href : chaque lien <a> doit rester identique.`

// AltText asks for alt texts for each product image; the reply shape is
// enforced by a tool-call schema.
const AltText = `Voici les images du produit « %s » (catégorie : %s). Pour chaque URL,
propose un texte alternatif descriptif de 5 à 12 mots mentionnant le produit.
URLs :
%s`

// InternalLinking asks the model to weave links to related products into an
// existing description without touching the rest of the copy.
const InternalLinking = `Voici la description HTML du produit « %s » et une liste de produits
liés au format "nom | /produit/slug". Insère 2 à 3 liens <a> vers ces
produits aux endroits pertinents du texte, sans rien réécrire d'autre.
Si des liens vers ces produits existent déjà, réponds exactement "NO_CHANGES".

Description :
%s

Produits liés :
%s`

// Translate asks for a translation of product copy preserving HTML markup.
const Translate = `Traduis le contenu HTML suivant en %s en conservant exactement les
balises et leur structure. Réponds avec le HTML traduit uniquement.

%s`
