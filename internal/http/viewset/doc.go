// Package viewset monta un recurso REST (list, retrieve, create, update, destroy)
// sobre chi, donde cada paso del ciclo de vida es un hook despachado por rol.
//
//	list     GET    /       get_queryset, get_serializer_class
//	retrieve GET    /{id}   get_queryset, get_serializer_class
//	create   POST   /       get_serializer_class, perform_create
//	update   PUT    /{id}   get_queryset, get_serializer_class, perform_update
//	destroy  DELETE /{id}   get_queryset, perform_destroy
//
// retrieve/update/destroy sólo ven objetos presentes en el queryset del rol:
// un objeto filtrado responde 404.
package viewset
