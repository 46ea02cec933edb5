// Package repository define lo que roleviews necesita del storage: grupos y
// membresías (de donde sale el rol de cada usuario) y los artículos del recurso demo.
// Los drivers viven en internal/store/adapters.
//
//	┌─────────────────────────────────────────────────────┐
//	│        ViewSets / roles.Dispatcher                  │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (interfaces)               │
//	│      GroupRepository, ArticleRepository             │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	               ┌────────┴────────┐
//	               ▼                 ▼
//	        ┌─────────────┐   ┌─────────────┐
//	        │  adapters/  │   │  adapters/  │
//	        │     pg      │   │   memory    │
//	        └─────────────┘   └─────────────┘
//
// Los nombres de grupo se comparan en minúsculas; el nombre guardado conserva
// el casing con que se creó.
package repository
