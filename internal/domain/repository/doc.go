// Package repository define las interfaces de repositorio de dominio.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente. La implementación concreta vive en
// internal/store/pg.
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - TenantID (y ProjectID donde aplica) se pasan explícitamente: el scoping
//     es una precondición de cada operación, nunca se confía en el filtro que
//     arme el llamador
//   - Errores de dominio están en errors.go
package repository
